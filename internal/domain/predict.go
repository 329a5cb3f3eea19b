package domain

import (
	"math"
	"time"
)

// RiskInput holds the optional weather observations for a risk prediction.
// Nil fields contribute nothing to the score.
type RiskInput struct {
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
}

// RiskPrediction is the /predict response payload.
type RiskPrediction struct {
	RiskLevel         string  `json:"risk_level"`
	Confidence        float64 `json:"confidence"`
	PredictedSpreadKm float64 `json:"predicted_spread_km"`
	TimeToSpreadHours float64 `json:"time_to_spread_hours"`
}

// PredictRisk scores fire risk from point weather observations. The score
// starts at a 0.3 baseline and rises with heat above 30 °C, dryness below
// 30 % RH, and wind above 10 km/h, capped at 1.0. Levels split at 0.4 and
// 0.7. Spread distance scales linearly with risk; time to spread shrinks
// as risk grows, floored at one hour.
func PredictRisk(in RiskInput) RiskPrediction {
	risk := 0.3
	if in.Temperature != nil && *in.Temperature > 30 {
		risk += (*in.Temperature - 30) * 0.02
	}
	if in.Humidity != nil && *in.Humidity < 30 {
		risk += (30 - *in.Humidity) * 0.01
	}
	if in.WindSpeed != nil && *in.WindSpeed > 10 {
		risk += (*in.WindSpeed - 10) * 0.03
	}
	risk = math.Min(risk, 1.0)

	level := SeverityLow
	switch {
	case risk > 0.7:
		level = SeverityHigh
	case risk > 0.4:
		level = SeverityMedium
	}

	return RiskPrediction{
		RiskLevel:         level,
		Confidence:        0.85,
		PredictedSpreadKm: round2(risk * 5.0),
		TimeToSpreadHours: round1(math.Max(1.0, (1.0-risk)*12.0)),
	}
}

// SpreadWeather describes the conditions driving a spread simulation.
type SpreadWeather struct {
	TemperatureC  float64 `json:"temperature"`
	HumidityPct   float64 `json:"humidity"`
	WindSpeedKmh  float64 `json:"wind_speed"`
	WindDirection string  `json:"wind_direction"` // compass point, e.g. "NW"
}

// SpreadStep is the predicted fire perimeter after a number of hours.
type SpreadStep struct {
	Hours      int       `json:"hours"`
	Timestamp  time.Time `json:"timestamp"`
	Perimeter  []Geo     `json:"perimeter"`
	SpreadKm   float64   `json:"spread_km"`
	Confidence float64   `json:"confidence"`
}

// SpreadPrediction is the full spread forecast for one ignition point.
type SpreadPrediction struct {
	IgnitionPoint Geo           `json:"ignition_point"`
	Predictions   []SpreadStep  `json:"predictions"`
	Factors       SpreadWeather `json:"factors"`
}

var windDirDegrees = map[string]float64{
	"N": 0, "NE": 45, "E": 90, "SE": 135,
	"S": 180, "SW": 225, "W": 270, "NW": 315,
}

var spreadHorizons = []int{1, 3, 6}

// PredictSpread runs a simplified wind-driven elliptical spread model from
// an ignition point. The base spread rate blends temperature, dryness, and
// wind, clamped to 0.1-2.0 km/h. Spread is full-rate downwind, 0.2x upwind,
// and 0.6x crosswind; each horizon samples the perimeter every 10 degrees.
// Confidence decays with the forecast horizon.
func PredictSpread(ignition Geo, weather SpreadWeather) SpreadPrediction {
	rate := (weather.TemperatureC/40)*0.4 +
		((100-weather.HumidityPct)/100)*0.3 +
		(weather.WindSpeedKmh/30)*0.3
	rate = math.Max(0.1, math.Min(2.0, rate))

	windDeg := windDirDegrees[weather.WindDirection]
	now := clock.Now()

	steps := make([]SpreadStep, 0, len(spreadHorizons))
	for _, hours := range spreadHorizons {
		spreadKm := rate * float64(hours)
		perimeter := make([]Geo, 0, 36)

		for angleDeg := 0; angleDeg < 360; angleDeg += 10 {
			diff := math.Abs(math.Mod(float64(angleDeg)-windDeg+360, 360))
			factor := 0.6 // crosswind
			switch {
			case diff <= 90:
				factor = 1.0 // downwind
			case diff >= 270:
				factor = 0.2 // upwind
			}

			distance := spreadKm * factor
			angleRad := float64(angleDeg) * math.Pi / 180
			latOffset := distance * 0.009 * math.Cos(angleRad)
			lonOffset := distance * 0.009 * math.Sin(angleRad) / math.Cos(ignition.Lat*math.Pi/180)

			perimeter = append(perimeter, Geo{
				Lat: ignition.Lat + latOffset,
				Lon: ignition.Lon + lonOffset,
			})
		}

		steps = append(steps, SpreadStep{
			Hours:      hours,
			Timestamp:  now.Add(time.Duration(hours) * time.Hour),
			Perimeter:  perimeter,
			SpreadKm:   spreadKm,
			Confidence: math.Max(0.3, 1.0-float64(hours)/10),
		})
	}

	return SpreadPrediction{
		IgnitionPoint: ignition,
		Predictions:   steps,
		Factors:       weather,
	}
}

// PredictSpreadForAlerts produces spread forecasts for every high-severity,
// high-confidence alert.
func PredictSpreadForAlerts(alerts []Alert, weather SpreadWeather) []SpreadPrediction {
	var predictions []SpreadPrediction
	for i := range alerts {
		a := &alerts[i]
		if a.Severity != SeverityHigh || a.Confidence < 0.7 {
			continue
		}
		predictions = append(predictions, PredictSpread(a.Location, weather))
	}
	return predictions
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
