package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the generation backend name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the model identifier.
	FieldModel = "ai_model"

	FieldOperation = "engine_operation"
	FieldCategory  = "interview_category"
	FieldLevel     = "interview_level"
	FieldPersona   = "interview_persona"
	FieldTurn      = "interview_turn"
	FieldFallback  = "fallback_reason"
	FieldSession   = "session_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Entries whose key or
// value is blank after trimming are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ProviderFields describes the backend and model serving a call.
func ProviderFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithProvider attaches ProviderFields to the logger.
func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, ProviderFields(provider, model)...)
}

// InterviewFields describes the interview a call belongs to. A non-positive
// turn is omitted, which is how case setup calls are logged.
func InterviewFields(operation, category, level, persona string, turn int) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldOperation, Value: operation},
		StringField{Key: FieldCategory, Value: category},
		StringField{Key: FieldLevel, Value: level},
		StringField{Key: FieldPersona, Value: persona},
	)
	if turn > 0 {
		fields = append(fields, zap.Int(FieldTurn, turn))
	}
	return fields
}
