package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/petdex/analytics/internal/utils"
)

// TelemetryKind identifies an upstream telemetry collection
type TelemetryKind string

const (
	KindHeartRate TelemetryKind = "batimentos"
	KindMotion    TelemetryKind = "movimentos"
)

// HeartRateRecord is one heart-rate reading of the monitored animal.
// HeartRate is nil when the upstream value was missing or not numeric.
type HeartRateRecord struct {
	Timestamp time.Time `json:"data"`
	HeartRate *float64  `json:"frequenciaMedia"`
}

// MotionRecord is one accelerometer/gyroscope reading.
type MotionRecord struct {
	Timestamp      time.Time `json:"data"`
	AccelerometerX *float64  `json:"acelerometroX"`
	AccelerometerY *float64  `json:"acelerometroY"`
	AccelerometerZ *float64  `json:"acelerometroZ"`
	GyroscopeX     *float64  `json:"giroscopioX"`
	GyroscopeY     *float64  `json:"giroscopioY"`
	GyroscopeZ     *float64  `json:"giroscopioZ"`
}

// Motion channel names, shared by the regression and the HTTP layer
const (
	ChannelAccelerometerX = "acelerometroX"
	ChannelAccelerometerY = "acelerometroY"
	ChannelAccelerometerZ = "acelerometroZ"
	ChannelGyroscopeX     = "giroscopioX"
	ChannelGyroscopeY     = "giroscopioY"
	ChannelGyroscopeZ     = "giroscopioZ"
)

// AccelerometerChannels are the default regression predictors
var AccelerometerChannels = []string{ChannelAccelerometerX, ChannelAccelerometerY, ChannelAccelerometerZ}

// GyroscopeChannels are the optional extra regression predictors
var GyroscopeChannels = []string{ChannelGyroscopeX, ChannelGyroscopeY, ChannelGyroscopeZ}

// Channel returns the value of a named channel, nil if missing or unknown.
func (m MotionRecord) Channel(name string) *float64 {
	switch name {
	case ChannelAccelerometerX:
		return m.AccelerometerX
	case ChannelAccelerometerY:
		return m.AccelerometerY
	case ChannelAccelerometerZ:
		return m.AccelerometerZ
	case ChannelGyroscopeX:
		return m.GyroscopeX
	case ChannelGyroscopeY:
		return m.GyroscopeY
	case ChannelGyroscopeZ:
		return m.GyroscopeZ
	default:
		return nil
	}
}

// timestampLayouts are tried in order. Zone-less layouts are read in the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp parses an upstream timestamp. Values without an explicit
// offset are interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

type heartRateWire struct {
	Data            interface{} `json:"data"`
	FrequenciaMedia interface{} `json:"frequenciaMedia"`
}

type motionWire struct {
	Data          interface{} `json:"data"`
	AcelerometroX interface{} `json:"acelerometroX"`
	AcelerometroY interface{} `json:"acelerometroY"`
	AcelerometroZ interface{} `json:"acelerometroZ"`
	GiroscopioX   interface{} `json:"giroscopioX"`
	GiroscopioY   interface{} `json:"giroscopioY"`
	GiroscopioZ   interface{} `json:"giroscopioZ"`
}

func parseWireTimestamp(v interface{}, loc *time.Location) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp is %T, want string", v)
	}
	return ParseTimestamp(s, loc)
}

// DecodeHeartRate decodes one upstream heart-rate record. A record without a
// usable timestamp is an error; a non-numeric heart rate only yields a nil value.
func DecodeHeartRate(raw []byte, loc *time.Location) (HeartRateRecord, error) {
	var w heartRateWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return HeartRateRecord{}, fmt.Errorf("invalid heart-rate record: %w", err)
	}

	ts, err := parseWireTimestamp(w.Data, loc)
	if err != nil {
		return HeartRateRecord{}, fmt.Errorf("invalid heart-rate record: %w", err)
	}

	return HeartRateRecord{
		Timestamp: ts,
		HeartRate: utils.ToFloat64Ptr(w.FrequenciaMedia),
	}, nil
}

// DecodeMotion decodes one upstream motion record.
func DecodeMotion(raw []byte, loc *time.Location) (MotionRecord, error) {
	var w motionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return MotionRecord{}, fmt.Errorf("invalid motion record: %w", err)
	}

	ts, err := parseWireTimestamp(w.Data, loc)
	if err != nil {
		return MotionRecord{}, fmt.Errorf("invalid motion record: %w", err)
	}

	return MotionRecord{
		Timestamp:      ts,
		AccelerometerX: utils.ToFloat64Ptr(w.AcelerometroX),
		AccelerometerY: utils.ToFloat64Ptr(w.AcelerometroY),
		AccelerometerZ: utils.ToFloat64Ptr(w.AcelerometroZ),
		GyroscopeX:     utils.ToFloat64Ptr(w.GiroscopioX),
		GyroscopeY:     utils.ToFloat64Ptr(w.GiroscopioY),
		GyroscopeZ:     utils.ToFloat64Ptr(w.GiroscopioZ),
	}, nil
}

// DecodeHeartRates decodes a page of raw records, dropping malformed ones.
// It returns the decoded records and the number dropped.
func DecodeHeartRates(raw []json.RawMessage, loc *time.Location) ([]HeartRateRecord, int) {
	records := make([]HeartRateRecord, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		rec, err := DecodeHeartRate(r, loc)
		if err != nil {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// DecodeMotions decodes a page of raw motion records, dropping malformed ones.
func DecodeMotions(raw []json.RawMessage, loc *time.Location) ([]MotionRecord, int) {
	records := make([]MotionRecord, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		rec, err := DecodeMotion(r, loc)
		if err != nil {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}
