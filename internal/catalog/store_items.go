package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const gameColumns = "id, title, original_title, store_id, catalog_id, developer, publisher, genres, themes, player_perspective, description, release_date, cover_url, trailer_url, screenshots_json, trailers_json, microtrailers_json, store_link, storedb_link, catalog_link, wiki_link, user_rating, critic_rating, played, personal_rating, save_locations_json, image_cache_paths_json, microtrailer_cache_path, created_at, updated_at"

// Add inserts a new library entry and returns it with its assigned id.
func (s *Store) Add(ctx context.Context, game *GameRecord) (*GameRecord, error) {
	if game == nil {
		return nil, errors.New("game is nil")
	}
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO games (
            title, original_title, store_id, catalog_id, developer, publisher,
            genres, themes, player_perspective, description, release_date,
            cover_url, trailer_url, screenshots_json, trailers_json,
            microtrailers_json, store_link, storedb_link, catalog_link,
            wiki_link, user_rating, critic_rating, played, personal_rating,
            save_locations_json, image_cache_paths_json,
            microtrailer_cache_path, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game.Title,
		nullableString(game.OriginalTitle),
		nullableString(game.StoreID),
		nullableString(game.CatalogID),
		nullableString(game.Developer),
		nullableString(game.Publisher),
		nullableString(game.Genres),
		nullableString(game.Themes),
		nullableString(game.PlayerPerspective),
		nullableString(game.Description),
		nullableString(game.ReleaseDate),
		nullableString(game.CoverURL),
		nullableString(game.TrailerURL),
		marshalStringList(game.Screenshots),
		marshalStringList(game.Trailers),
		marshalStringList(game.Microtrailers),
		nullableString(game.StoreLink),
		nullableString(game.StoreDBLink),
		nullableString(game.CatalogLink),
		nullableString(game.WikiLink),
		nullableFloat(game.UserRating),
		nullableFloat(game.CriticRating),
		boolToInt(game.Played),
		nullableInt(game.PersonalRating),
		marshalStringList(game.SaveLocations),
		marshalStringList(game.ImageCachePaths),
		nullableString(game.MicrotrailerCachePath),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a library entry by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// FindByTitle returns the first entry whose title matches case-insensitively.
func (s *Store) FindByTitle(ctx context.Context, title string) (*GameRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+gameColumns+` FROM games WHERE title = ? COLLATE NOCASE ORDER BY id LIMIT 1`,
		title,
	)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find by title: %w", err)
	}
	return game, nil
}

// Update persists changes to an existing library entry.
func (s *Store) Update(ctx context.Context, game *GameRecord) error {
	if game == nil {
		return errors.New("game is nil")
	}
	game.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE games
         SET title = ?, original_title = ?, store_id = ?, catalog_id = ?,
             developer = ?, publisher = ?, genres = ?, themes = ?,
             player_perspective = ?, description = ?, release_date = ?,
             cover_url = ?, trailer_url = ?, screenshots_json = ?,
             trailers_json = ?, microtrailers_json = ?, store_link = ?,
             storedb_link = ?, catalog_link = ?, wiki_link = ?,
             user_rating = ?, critic_rating = ?, played = ?,
             personal_rating = ?, save_locations_json = ?,
             image_cache_paths_json = ?, microtrailer_cache_path = ?,
             updated_at = ?
         WHERE id = ?`,
		game.Title,
		nullableString(game.OriginalTitle),
		nullableString(game.StoreID),
		nullableString(game.CatalogID),
		nullableString(game.Developer),
		nullableString(game.Publisher),
		nullableString(game.Genres),
		nullableString(game.Themes),
		nullableString(game.PlayerPerspective),
		nullableString(game.Description),
		nullableString(game.ReleaseDate),
		nullableString(game.CoverURL),
		nullableString(game.TrailerURL),
		marshalStringList(game.Screenshots),
		marshalStringList(game.Trailers),
		marshalStringList(game.Microtrailers),
		nullableString(game.StoreLink),
		nullableString(game.StoreDBLink),
		nullableString(game.CatalogLink),
		nullableString(game.WikiLink),
		nullableFloat(game.UserRating),
		nullableFloat(game.CriticRating),
		boolToInt(game.Played),
		nullableInt(game.PersonalRating),
		marshalStringList(game.SaveLocations),
		marshalStringList(game.ImageCachePaths),
		nullableString(game.MicrotrailerCachePath),
		game.UpdatedAt.Format(time.RFC3339Nano),
		game.ID,
	); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

// List returns all library entries ordered by title.
func (s *Store) List(ctx context.Context) ([]*GameRecord, error) {
	return s.queryGames(ctx, `SELECT `+gameColumns+` FROM games ORDER BY title COLLATE NOCASE, id`)
}

// Unresolved returns entries missing at least one source identifier, in
// insertion order. These are the batch scrape workload.
func (s *Store) Unresolved(ctx context.Context) ([]*GameRecord, error) {
	return s.queryGames(ctx, `SELECT `+gameColumns+` FROM games
         WHERE store_id IS NULL OR store_id = '' OR catalog_id IS NULL OR catalog_id = ''
         ORDER BY id`)
}

func (s *Store) queryGames(ctx context.Context, query string, args ...any) ([]*GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []*GameRecord
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// Remove deletes an entry by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of library entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return count, nil
}

func scanGame(scanner interface{ Scan(dest ...any) error }) (*GameRecord, error) {
	var (
		id                int64
		title             string
		originalTitle     sql.NullString
		storeID           sql.NullString
		catalogID         sql.NullString
		developer         sql.NullString
		publisher         sql.NullString
		genres            sql.NullString
		themes            sql.NullString
		playerPerspective sql.NullString
		description       sql.NullString
		releaseDate       sql.NullString
		coverURL          sql.NullString
		trailerURL        sql.NullString
		screenshotsRaw    sql.NullString
		trailersRaw       sql.NullString
		microtrailersRaw  sql.NullString
		storeLink         sql.NullString
		storeDBLink       sql.NullString
		catalogLink       sql.NullString
		wikiLink          sql.NullString
		userRating        sql.NullFloat64
		criticRating      sql.NullFloat64
		played            sql.NullInt64
		personalRating    sql.NullInt64
		saveLocationsRaw  sql.NullString
		cachePathsRaw     sql.NullString
		microtrailerCache sql.NullString
		createdRaw        sql.NullString
		updatedRaw        sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&originalTitle,
		&storeID,
		&catalogID,
		&developer,
		&publisher,
		&genres,
		&themes,
		&playerPerspective,
		&description,
		&releaseDate,
		&coverURL,
		&trailerURL,
		&screenshotsRaw,
		&trailersRaw,
		&microtrailersRaw,
		&storeLink,
		&storeDBLink,
		&catalogLink,
		&wikiLink,
		&userRating,
		&criticRating,
		&played,
		&personalRating,
		&saveLocationsRaw,
		&cachePathsRaw,
		&microtrailerCache,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	game := &GameRecord{
		ID:                    id,
		Title:                 title,
		OriginalTitle:         originalTitle.String,
		StoreID:               storeID.String,
		CatalogID:             catalogID.String,
		Developer:             developer.String,
		Publisher:             publisher.String,
		Genres:                genres.String,
		Themes:                themes.String,
		PlayerPerspective:     playerPerspective.String,
		Description:           description.String,
		ReleaseDate:           releaseDate.String,
		CoverURL:              coverURL.String,
		TrailerURL:            trailerURL.String,
		Screenshots:           unmarshalStringList(screenshotsRaw.String),
		Trailers:              unmarshalStringList(trailersRaw.String),
		Microtrailers:         unmarshalStringList(microtrailersRaw.String),
		StoreLink:             storeLink.String,
		StoreDBLink:           storeDBLink.String,
		CatalogLink:           catalogLink.String,
		WikiLink:              wikiLink.String,
		UserRating:            userRating.Float64,
		CriticRating:          criticRating.Float64,
		SaveLocations:         unmarshalStringList(saveLocationsRaw.String),
		ImageCachePaths:       unmarshalStringList(cachePathsRaw.String),
		MicrotrailerCachePath: microtrailerCache.String,
	}
	if played.Valid {
		game.Played = played.Int64 != 0
	}
	if personalRating.Valid {
		game.PersonalRating = int(personalRating.Int64)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		game.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		game.UpdatedAt = updated
	}
	return game, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func marshalStringList(values []string) any {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(data)
}

func unmarshalStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
