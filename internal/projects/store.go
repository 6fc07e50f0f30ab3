package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"daybyday-backend/internal/plan"
)

// ErrNotFound is returned when a user has no project under a title.
var ErrNotFound = errors.New("project not found")

// Store persists whole project documents per (user, title). The core
// never sees SQL; a project is loaded, edited and saved as one value.
type Store interface {
	Load(ctx context.Context, userID int, title string) (plan.Project, error)
	Save(ctx context.Context, userID int, p plan.Project) error
	List(ctx context.Context, userID int) ([]string, error)
}

type PostgresStore struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Load(ctx context.Context, userID int, title string) (plan.Project, error) {
	var data []byte
	err := s.DB.QueryRowContext(ctx, `
		SELECT data FROM projects
		WHERE user_id = $1 AND title = $2
	`, userID, title).Scan(&data)
	if err == sql.ErrNoRows {
		return plan.Project{}, ErrNotFound
	}
	if err != nil {
		return plan.Project{}, err
	}

	return decodeDocument(data)
}

// decodeDocument unmarshals a stored project. Older documents kept
// tasks as bare strings or partial objects; each day is normalized
// once here so everything downstream works with fully typed tasks.
func decodeDocument(data []byte) (plan.Project, error) {
	var doc struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Tasks       [][]any `json:"tasks"`
		RawPlan     string  `json:"raw_plan"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return plan.Project{}, err
	}

	p := plan.Project{
		Title:       doc.Title,
		Description: doc.Description,
		RawPlan:     doc.RawPlan,
	}
	for i := 0; i < plan.NumDays && i < len(doc.Tasks); i++ {
		p.Tasks[i] = plan.Normalize(doc.Tasks[i])
	}
	return p, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID int, p plan.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO projects (user_id, title, data, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (user_id, title) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = now()
	`, userID, p.Title, string(data))
	return err
}

func (s *PostgresStore) List(ctx context.Context, userID int) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT title FROM projects
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}
