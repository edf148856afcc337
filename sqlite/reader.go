// Package sqlite provides a frame source backed by a SQLite database: it
// materializes the result of a SQL query into a frame.Frame so the rows can
// be fed through the filtering engine.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/asaidimu/go-sift/core/frame"
	"go.uber.org/zap"
)

// FieldTypes maps column names to the field type tag their values should be
// labeled with. Columns not present in the map get their type inferred from
// the first non-null value.
type FieldTypes map[string]frame.FieldType

// FrameReader reads SQL query results into frames.
type FrameReader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFrameReader creates a FrameReader over the given database handle.
func NewFrameReader(db *sql.DB, logger *zap.Logger) *FrameReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameReader{db: db, logger: logger}
}

// ReadFrame executes query and returns its full result set as a single frame
// named name. Column order becomes field order; values are coerced per the
// declared or inferred field type.
func (r *FrameReader) ReadFrame(ctx context.Context, name, query string, types FieldTypes, args ...any) (*frame.Frame, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	fields := make([]*frame.Field, len(columns))
	typed := make([]bool, len(columns))
	for i, col := range columns {
		fieldType := frame.FieldTypeOther
		if t, ok := types[col]; ok {
			fieldType = t
			typed[i] = true
		} else {
			r.logger.Debug("Column type not declared, will infer from values", zap.String("column", col))
		}
		fields[i] = &frame.Field{Name: col, Type: fieldType, Values: []any{}}
	}

	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, val := range values {
			if val != nil && !typed[i] {
				fields[i].Type = inferFieldType(val)
				typed[i] = true
			}
			fields[i].Append(coerceValue(val, fields[i].Type))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading rows: %w", err)
	}

	fr, err := frame.New(name, fields...)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Read frame", zap.String("frame", name), zap.Int("rows", fr.Length))
	return fr, nil
}

// inferFieldType maps a scanned value's dynamic type to a field type tag.
func inferFieldType(val any) frame.FieldType {
	switch val.(type) {
	case int64, float64:
		return frame.FieldTypeNumber
	case bool:
		return frame.FieldTypeBoolean
	case string, []byte:
		return frame.FieldTypeString
	case time.Time:
		return frame.FieldTypeTime
	default:
		return frame.FieldTypeOther
	}
}

// coerceValue normalizes a scanned value to the representation the matchers
// expect for the field's type. SQLite reports booleans as integers and text
// may arrive as []byte.
func coerceValue(val any, fieldType frame.FieldType) any {
	if val == nil {
		return nil
	}
	switch fieldType {
	case frame.FieldTypeBoolean:
		if intVal, ok := val.(int64); ok {
			return intVal != 0
		}
	case frame.FieldTypeString:
		if byteVal, ok := val.([]byte); ok {
			return string(byteVal)
		}
	case frame.FieldTypeNumber:
		if byteVal, ok := val.([]byte); ok {
			return string(byteVal)
		}
	}
	return val
}
