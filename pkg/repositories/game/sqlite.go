package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/relancina/pkg/db/migrations"
	"github.com/fadedpez/relancina/pkg/entities"
)

const roundColumns = `id, game_id, round, house_id, reason, house_score, house_bust, house_net, completed_at`

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at dbPath and applies the embedded migrations
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// a single connection keeps writers from tripping over SQLITE_BUSY
	db.SetMaxOpenConns(1)

	migrator := migrations.NewMigrator(db, migrations.Embedded())
	if _, err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRoundResult stores a round, its player lines and its ledger in one transaction
func (r *SQLiteRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO round_results (`+roundColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.GameID, result.Round, result.HouseID, string(result.Reason),
		int(result.HouseScore), result.HouseBust, result.HouseNet, result.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("error inserting round %s: %w", result.ID, err)
	}

	for i, pr := range result.Players {
		cardsJSON, err := json.Marshal(pr.Cards)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_round_results (
				round_result_id, position, player_id, name, outcome, bet, multiplier,
				credits_change, credits_after, score, special, bust, cards, eliminated
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			result.ID, i, pr.PlayerID, pr.Name, string(pr.Outcome), pr.Bet, pr.Multiplier,
			pr.CreditsChange, pr.CreditsAfter, int(pr.Score), pr.Special, pr.Bust, string(cardsJSON), pr.Eliminated)
		if err != nil {
			return fmt.Errorf("error inserting result for player %s: %w", pr.PlayerID, err)
		}
	}

	for _, entry := range result.Ledger {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ledger_entries (
				id, game_id, round, player_id, amount, type, description, balance_after, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.GameID, entry.Round, entry.PlayerID, entry.Amount, string(entry.Type),
			entry.Description, entry.BalanceAfter, entry.Timestamp.UTC())
		if err != nil {
			return fmt.Errorf("error inserting ledger entry %s: %w", entry.ID, err)
		}
	}

	return tx.Commit()
}

// GetPlayerResults retrieves the rounds a player sat in, newest first
func (r *SQLiteRepository) GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.RoundResult, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM round_results
		WHERE house_id = ?
		   OR id IN (SELECT round_result_id FROM player_round_results WHERE player_id = ?)
		ORDER BY completed_at DESC, round DESC`
	args := []interface{}{playerID, playerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.loadRounds(ctx, query, args...)
}

// GetGameResults retrieves every round of a game in round order
func (r *SQLiteRepository) GetGameResults(ctx context.Context, gameID string) ([]*entities.RoundResult, error) {
	return r.loadRounds(ctx, `
		SELECT `+roundColumns+`
		FROM round_results
		WHERE game_id = ?
		ORDER BY round ASC`, gameID)
}

// ListPlayerIDs returns every player id seen as house or player
func (r *SQLiteRepository) ListPlayerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT house_id FROM round_results
		UNION
		SELECT player_id FROM player_round_results
		ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PruneBefore deletes rounds completed before cutoff along with their ledger
func (r *SQLiteRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	cutoff = cutoff.UTC()
	_, err = tx.ExecContext(ctx, `
		DELETE FROM ledger_entries
		WHERE EXISTS (
			SELECT 1 FROM round_results rr
			WHERE rr.game_id = ledger_entries.game_id
			  AND rr.round = ledger_entries.round
			  AND rr.completed_at < ?
		)`, cutoff)
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM player_round_results
		WHERE round_result_id IN (SELECT id FROM round_results WHERE completed_at < ?)`, cutoff)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM round_results WHERE completed_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(deleted), tx.Commit()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// loadRounds runs a round_results query, then fills in player lines and ledgers
func (r *SQLiteRepository) loadRounds(ctx context.Context, query string, args ...interface{}) ([]*entities.RoundResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	results := []*entities.RoundResult{}
	byID := make(map[string]*entities.RoundResult)
	for rows.Next() {
		var (
			result     entities.RoundResult
			reason     string
			houseScore int
		)
		err := rows.Scan(&result.ID, &result.GameID, &result.Round, &result.HouseID, &reason,
			&houseScore, &result.HouseBust, &result.HouseNet, &result.CompletedAt)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result.Reason = entities.FinishReason(reason)
		result.HouseScore = entities.Points(houseScore)
		result.Players = []*entities.PlayerResult{}
		byID[result.ID] = &result
		results = append(results, &result)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return results, nil
	}

	if err := r.loadPlayers(ctx, results, byID); err != nil {
		return nil, err
	}
	if err := r.loadLedgers(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *SQLiteRepository) loadPlayers(ctx context.Context, results []*entities.RoundResult, byID map[string]*entities.RoundResult) error {
	args := make([]interface{}, len(results))
	for i, result := range results {
		args[i] = result.ID
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT round_result_id, player_id, name, outcome, bet, multiplier, credits_change,
		       credits_after, score, special, bust, cards, eliminated
		FROM player_round_results
		WHERE round_result_id IN (`+placeholders(len(args))+`)
		ORDER BY round_result_id, position`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			roundID   string
			pr        entities.PlayerResult
			outcome   string
			score     int
			special   sql.NullString
			cardsJSON string
		)
		err := rows.Scan(&roundID, &pr.PlayerID, &pr.Name, &outcome, &pr.Bet, &pr.Multiplier,
			&pr.CreditsChange, &pr.CreditsAfter, &score, &special, &pr.Bust, &cardsJSON, &pr.Eliminated)
		if err != nil {
			return err
		}
		pr.Outcome = entities.Outcome(outcome)
		pr.Score = entities.Points(score)
		pr.Special = special.String
		if err := json.Unmarshal([]byte(cardsJSON), &pr.Cards); err != nil {
			return fmt.Errorf("error decoding cards of round %s: %w", roundID, err)
		}
		if result, ok := byID[roundID]; ok {
			result.Players = append(result.Players, &pr)
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadLedgers(ctx context.Context, results []*entities.RoundResult) error {
	type roundKey struct {
		gameID string
		round  int
	}
	byRound := make(map[roundKey]*entities.RoundResult, len(results))
	gameIDs := make(map[string]bool)
	for _, result := range results {
		byRound[roundKey{result.GameID, result.Round}] = result
		gameIDs[result.GameID] = true
	}
	args := make([]interface{}, 0, len(gameIDs))
	for id := range gameIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, game_id, round, player_id, amount, type, description, balance_after, created_at
		FROM ledger_entries
		WHERE game_id IN (`+placeholders(len(args))+`)
		ORDER BY created_at, rowid`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry       entities.Transaction
			kind        string
			description sql.NullString
		)
		err := rows.Scan(&entry.ID, &entry.GameID, &entry.Round, &entry.PlayerID, &entry.Amount,
			&kind, &description, &entry.BalanceAfter, &entry.Timestamp)
		if err != nil {
			return err
		}
		entry.Type = entities.TransactionType(kind)
		entry.Description = description.String
		if result, ok := byRound[roundKey{entry.GameID, entry.Round}]; ok {
			result.Ledger = append(result.Ledger, entry)
		}
	}
	return rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
