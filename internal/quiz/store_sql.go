package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) List(ctx context.Context, userID string) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,topic,title,description,difficulty,created_at,questions_json,last_score,time_limit_minutes
		 FROM quizzes WHERE user_id=$1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quiz
	for rows.Next() {
		var q Quiz
		var qjson string
		var score sql.NullFloat64
		var limit sql.NullInt64
		if err := rows.Scan(&q.ID, &q.Topic, &q.Title, &q.Description, &q.Difficulty,
			&q.CreatedAt, &qjson, &score, &limit); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
			return nil, err
		}
		if score.Valid {
			v := score.Float64
			q.LastScore = &v
		}
		if limit.Valid {
			q.TimeLimitMinutes = int(limit.Int64)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) Create(ctx context.Context, userID string, q Quiz) error {
	if err := q.Validate(); err != nil {
		return err
	}
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	var score sql.NullFloat64
	if q.LastScore != nil {
		score = sql.NullFloat64{Float64: *q.LastScore, Valid: true}
	}
	var limit sql.NullInt64
	if q.TimeLimitMinutes > 0 {
		limit = sql.NullInt64{Int64: int64(q.TimeLimitMinutes), Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,user_id,topic,title,description,difficulty,created_at,questions_json,last_score,time_limit_minutes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		q.ID, userID, q.Topic, q.Title, q.Description, string(q.Difficulty),
		q.CreatedAt, string(qj), score, limit)
	return err
}

func (s *SQLStore) UpdateScore(ctx context.Context, userID, quizID string, score float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET last_score=$1 WHERE user_id=$2 AND id=$3`, score, userID, quizID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, userID, quizID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM quizzes WHERE user_id=$1 AND id=$2`, userID, quizID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
