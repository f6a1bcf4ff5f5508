// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package transform

import "math"

const (
	kelvin       = 273.15
	lapseRate    = 0.0065
	baroExponent = 0.03416 / lapseRate
)

// RelativePressure reduces the absolute pressure to sea level using the
// outdoor temperature and the station altitude in meters.
type RelativePressure struct {
	PressureField    string
	TemperatureField string
	Altitude         float64
}

func (rp RelativePressure) Transform(raw RawValues) (any, error) {
	abs, err := parseFloat(raw, rp.PressureField)
	if err != nil || abs == nil {
		return nil, nil
	}
	temp, err := parseFloat(raw, rp.TemperatureField)
	if err != nil || temp == nil {
		return nil, nil
	}
	return SeaLevelPressure(*abs, *temp, rp.Altitude), nil
}

// SeaLevelPressure applies the barometric formula and rounds the result to
// one decimal place.
func SeaLevelPressure(abs, temp, altitude float64) float64 {
	seaLevelTemp := kelvin + temp + lapseRate*altitude
	divisor := 1 - lapseRate*altitude/seaLevelTemp
	rel := abs / math.Pow(divisor, baroExponent)
	return math.Round(rel*10) / 10
}

// Gust reports the greater of the wind speed and the gust speed. The first
// speed field holding a reading wins, so firmware variants can be listed in
// order.
type Gust struct {
	SpeedFields []string
	GustField   string
}

func (g Gust) Transform(raw RawValues) (any, error) {
	var speed *float64
	for _, f := range g.SpeedFields {
		v, err := parseFloat(raw, f)
		if err != nil {
			return nil, err
		}
		if v != nil {
			speed = v
			break
		}
	}
	gust, err := parseFloat(raw, g.GustField)
	if err != nil {
		return nil, err
	}

	switch {
	case speed == nil && gust == nil:
		return nil, nil
	case speed == nil:
		return *gust, nil
	case gust == nil:
		return *speed, nil
	default:
		return math.Max(*speed, *gust), nil
	}
}
