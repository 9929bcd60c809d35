// Package igdb queries the IGDB v4 API. Authentication uses the Twitch
// client-credentials grant with a cached, self-refreshing access token.
package igdb
