package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, sessionTable,
		[]string{sessionIDColumn, "action", "topic_id", "mode", "correct", "total", "duration_secs"},
		[]any{data.SessionID, data.Action, data.TopicID, data.Mode, data.Correct, data.Total, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, answerTable,
		[]string{sessionIDColumn, "topic_id", "item_id", "user_answer", "spelling", "pronunciation", "translation", "translation_score", "correct"},
		[]any{data.SessionID, data.TopicID, data.ItemID, data.UserAnswer, data.Spelling, data.Pronunciation, data.Translation, data.TranslationScore, data.Correct},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummary, error) {
	preds := []*entsql.Predicate{entsql.EQ("action", "end")}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(sequenceColumn, opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(sequenceColumn, opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(timestampColumn, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(timestampColumn, opts.To.UnixMilli()))
	}
	if opts.TopicID != "" {
		preds = append(preds, entsql.EQ("topic_id", opts.TopicID))
	}

	sel := builder().
		Select(sequenceColumn, timestampColumn, sessionIDColumn, "topic_id", "mode", "correct", "total", "duration_secs").
		From(entsql.Table(sessionTable)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc(sequenceColumn))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			s  SessionSummary
			ts int64
		)
		if err := rows.Scan(&s.Sequence, &ts, &s.SessionID, &s.TopicID, &s.Mode, &s.Correct, &s.Total, &s.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		s.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session summaries: %w", err)
	}
	return out, nil
}

func (r *eventRepo) ItemAccuracy(ctx context.Context, itemID string) (float64, error) {
	query, args := builder().
		Select(entsql.Count("*"), entsql.Sum("correct")).
		From(entsql.Table(answerTable)).
		Where(entsql.EQ("item_id", itemID)).
		Query()

	var (
		total   int
		correct sql.NullInt64
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &correct); err != nil {
		return 0, fmt.Errorf("query item accuracy: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct.Int64) / float64(total), nil
}
