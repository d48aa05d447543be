package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petdex/analytics/internal/analytics"
	"github.com/petdex/analytics/internal/analytics/anomaly"
	"github.com/petdex/analytics/internal/analytics/forecast"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/models"
	"github.com/petdex/analytics/internal/observability"
)

// MessageInsufficientData is returned when the regression has nothing to fit on
const MessageInsufficientData = "Dados insuficientes para treinar o modelo"

// RegressionResult is a fitted model with its flat projection
type RegressionResult struct {
	Model      *forecast.Model           `json:"modelo"`
	Projection []forecast.ProjectedPoint `json:"projecao"`
	Message    string                    `json:"mensagem,omitempty"`
}

// PredictionResult is the heart rate estimated for one set of motion values
type PredictionResult struct {
	Inputs    map[string]float64 `json:"entradas"`
	Predicted *float64           `json:"batimento_previsto"`
	R2        *float64           `json:"r2,omitempty"`
	Message   string             `json:"mensagem,omitempty"`
}

// AnalyticsService runs the analytics engine over freshly loaded telemetry
type AnalyticsService struct {
	logger    *logging.Logger
	telemetry *TelemetryService
	alerts    *AlertNotifier
	limits    analytics.Limits
}

// NewAnalyticsService creates a new AnalyticsService. alerts may be nil.
func NewAnalyticsService(
	logger *logging.Logger,
	telemetry *TelemetryService,
	alerts *AlertNotifier,
	limits analytics.Limits,
) *AnalyticsService {
	return &AnalyticsService{
		logger:    logger,
		telemetry: telemetry,
		alerts:    alerts,
		limits:    limits,
	}
}

// Limits returns the analytics limits in effect
func (s *AnalyticsService) Limits() analytics.Limits {
	return s.limits
}

// Channels returns the predictor channels the regression uses
func (s *AnalyticsService) Channels() []string {
	return forecast.Channels(s.limits)
}

// Statistics describes every valid heart-rate reading
func (s *AnalyticsService) Statistics(ctx context.Context) (analytics.StatSummary, error) {
	records, err := s.telemetry.HeartRates(ctx)
	if err != nil {
		return analytics.StatSummary{}, err
	}
	return analytics.Describe(records, s.limits), nil
}

// MeanByDate averages the readings between two calendar dates, both inclusive
func (s *AnalyticsService) MeanByDate(ctx context.Context, start, end time.Time) (analytics.IntervalMean, error) {
	if end.Before(start) {
		return analytics.IntervalMean{}, NewServiceErrorWithDetails(CodeInvalidRequest,
			"inicio must not be after fim",
			map[string]interface{}{"inicio": start.Format("2006-01-02"), "fim": end.Format("2006-01-02")})
	}

	records, err := s.telemetry.HeartRates(ctx)
	if err != nil {
		return analytics.IntervalMean{}, err
	}
	return analytics.MeanByDateRange(records, start, end, s.limits), nil
}

// LastDays averages the most recent days that have valid readings
func (s *AnalyticsService) LastDays(ctx context.Context) (analytics.DailyMeans, error) {
	records, err := s.telemetry.HeartRates(ctx)
	if err != nil {
		return analytics.DailyMeans{}, err
	}
	return analytics.LastValidDays(records, s.limits), nil
}

// LastHours averages the most recent registered hours
func (s *AnalyticsService) LastHours(ctx context.Context) (analytics.HourlyMeans, error) {
	records, err := s.telemetry.HeartRates(ctx)
	if err != nil {
		return analytics.HourlyMeans{}, err
	}
	return analytics.LastRegisteredHours(records, s.limits), nil
}

// Classify scores value against the animal's heart-rate history and publishes
// an alert when the value is rare or invalid.
func (s *AnalyticsService) Classify(ctx context.Context, value float64) (anomaly.Classification, error) {
	records, err := s.telemetry.HeartRates(ctx)
	if err != nil {
		return anomaly.Classification{}, err
	}

	reference := make([]float64, 0, len(records))
	for _, r := range records {
		if r.HeartRate != nil {
			reference = append(reference, *r.HeartRate)
		}
	}

	result := anomaly.Classify(value, reference, s.limits)
	observability.RecordClassification(string(result.Tier))

	s.logger.Debug("Classified heart rate",
		"value", value,
		"tier", string(result.Tier),
		"reference", len(reference))

	s.alerts.Notify(ctx, result)
	return result, nil
}

// Regression fits the motion model and projects it over the forecast horizon
func (s *AnalyticsService) Regression(ctx context.Context) (*RegressionResult, error) {
	model, err := s.fit(ctx)
	if errors.Is(err, forecast.ErrInsufficientData) {
		return &RegressionResult{
			Projection: []forecast.ProjectedPoint{},
			Message:    MessageInsufficientData,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &RegressionResult{
		Model:      model,
		Projection: model.Project(),
	}, nil
}

// Predict fits the motion model and estimates the heart rate for inputs
func (s *AnalyticsService) Predict(ctx context.Context, inputs map[string]float64) (*PredictionResult, error) {
	for _, ch := range s.Channels() {
		if _, ok := inputs[ch]; !ok {
			return nil, NewServiceErrorWithDetails(CodeInvalidRequest,
				"missing motion channel "+ch,
				map[string]interface{}{"channels": s.Channels()})
		}
	}

	model, err := s.fit(ctx)
	if errors.Is(err, forecast.ErrInsufficientData) {
		return &PredictionResult{Inputs: inputs, Message: MessageInsufficientData}, nil
	}
	if err != nil {
		return nil, err
	}

	predicted, err := model.Predict(inputs)
	if err != nil {
		return nil, NewServiceError(CodeInvalidRequest, err.Error())
	}

	r2 := model.R2
	return &PredictionResult{
		Inputs:    inputs,
		Predicted: &predicted,
		R2:        &r2,
	}, nil
}

// fit loads both collections concurrently and fits the model
func (s *AnalyticsService) fit(ctx context.Context) (*forecast.Model, error) {
	var (
		heart  []models.HeartRateRecord
		motion []models.MotionRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		heart, err = s.telemetry.HeartRates(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		motion, err = s.telemetry.Motions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	model, err := forecast.Fit(heart, motion, s.limits)
	observability.RecordFit(err)
	if err != nil {
		s.logger.Info("Regression skipped",
			"heart_records", len(heart),
			"motion_records", len(motion),
			"error", err)
		return nil, err
	}

	s.logger.Debug("Fitted regression",
		"samples", model.Samples,
		"r2", model.R2,
		"mse", model.MSE)
	return model, nil
}
