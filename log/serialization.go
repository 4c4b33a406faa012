package log

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

// toLogAttr converts a resolved slog.Attr to its wire form.
func toLogAttr(attr slog.Attr) entities.LogAttr {
	wire := entities.LogAttr{Key: attr.Key}
	attr.Value = attr.Value.Resolve()

	switch attr.Value.Kind() {
	case slog.KindString:
		wire.Type = "string"
		wire.Value = attr.Value.String()
	case slog.KindInt64:
		wire.Type = "int64"
		wire.Value = strconv.FormatInt(attr.Value.Int64(), 10)
	case slog.KindUint64:
		wire.Type = "uint64"
		wire.Value = strconv.FormatUint(attr.Value.Uint64(), 10)
	case slog.KindBool:
		wire.Type = "bool"
		wire.Value = strconv.FormatBool(attr.Value.Bool())
	case slog.KindFloat64:
		wire.Type = "float64"
		wire.Value = strconv.FormatFloat(attr.Value.Float64(), 'g', -1, 64)
	case slog.KindTime:
		wire.Type = "time"
		wire.Value = attr.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type = "duration"
		wire.Value = attr.Value.Duration().String()
	default:
		v := attr.Value.Any()
		switch {
		case v == nil:
			wire.Type = "any"
			wire.Value = "<nil>"
		case isError(v):
			wire.Type = "error"
			wire.Value = v.(error).Error()
		case isStringer(v):
			wire.Type = "string"
			wire.Value = v.(fmt.Stringer).String()
		case reflect.ValueOf(v).Kind() == reflect.String:
			// Named string types such as entities.Job.
			wire.Type = "string"
			wire.Value = reflect.ValueOf(v).String()
		default:
			if data, err := json.Marshal(v); err == nil {
				wire.Type = "json"
				wire.Value = string(data)
			} else {
				wire.Type = "any"
				wire.Value = fmt.Sprintf("%v", v)
			}
		}
	}
	return wire
}

func isError(v any) bool {
	_, ok := v.(error)
	return ok
}

func isStringer(v any) bool {
	_, ok := v.(fmt.Stringer)
	return ok
}

// flattenAttrs appends attr to dst, expanding groups into dotted keys.
func flattenAttrs(dst []entities.LogAttr, prefix string, attr slog.Attr) []entities.LogAttr {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}

	key := attr.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if attr.Value.Kind() == slog.KindGroup {
		for _, a := range attr.Value.Group() {
			dst = flattenAttrs(dst, key, a)
		}
		return dst
	}
	attr.Key = key
	return append(dst, toLogAttr(attr))
}

// ParseLevel converts a level name such as "debug" or "WARN" into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// RecordFromMessage rebuilds a slog.Record on the host from a plugin log message.
// Attribute values keep their wire types where slog has a matching kind.
func RecordFromMessage(msg entities.LogMessage) slog.Record {
	level, err := ParseLevel(msg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	record := slog.NewRecord(ts, level, msg.Message, 0)
	for _, a := range msg.Attrs {
		record.AddAttrs(fromLogAttr(a))
	}
	if msg.Context.Job != "" {
		record.AddAttrs(slog.String("job", string(msg.Context.Job)))
	}
	return record
}

func fromLogAttr(a entities.LogAttr) slog.Attr {
	switch a.Type {
	case "int64":
		if v, err := strconv.ParseInt(a.Value, 10, 64); err == nil {
			return slog.Int64(a.Key, v)
		}
	case "uint64":
		if v, err := strconv.ParseUint(a.Value, 10, 64); err == nil {
			return slog.Uint64(a.Key, v)
		}
	case "bool":
		if v, err := strconv.ParseBool(a.Value); err == nil {
			return slog.Bool(a.Key, v)
		}
	case "float64":
		if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
			return slog.Float64(a.Key, v)
		}
	case "duration":
		if v, err := time.ParseDuration(a.Value); err == nil {
			return slog.Duration(a.Key, v)
		}
	case "time":
		if v, err := time.Parse(time.RFC3339Nano, a.Value); err == nil {
			return slog.Time(a.Key, v)
		}
	case "json":
		var v any
		if err := json.Unmarshal([]byte(a.Value), &v); err == nil {
			if s, ok := v.(string); ok {
				return slog.String(a.Key, s)
			}
			return slog.Any(a.Key, v)
		}
	}
	return slog.String(a.Key, a.Value)
}
