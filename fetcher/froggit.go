// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package fetcher

import (
	"time"

	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/absmach/weather-bridge/timeseries"
	"github.com/absmach/weather-bridge/transform"
)

// KindFroggitWH2600 identifies the Froggit WH2600 (and its rebrands) whose
// receiver serves livedata.htm.
const KindFroggitWH2600 = "FroggitWH2600"

// Result keys.
const (
	KeyTimestamp      = "timestamp"
	KeyBatteryInside  = "battery-inside"
	KeyBatteryOutside = "battery-outside"
	KeyTempInside     = "temp-inside"
	KeyHumiInside     = "humi-inside"
	KeyPressureAbs    = "pressure-abs"
	KeyPressureRel    = "pressure-rel"
	KeyTempOutside    = "temp-outside"
	KeyHumiOutside    = "humi-outside"
	KeyWindDirection  = "wind-direction"
	KeyWindSpeed      = "wind-speed"
	KeyWindGust       = "wind-gust"
	KeySolarRadiation = "solar-radiation"
	KeyUV             = "uv"
	KeyUVI            = "uvi"
	KeyRainHourly     = "rain-hourly"
	KeyRainCounter    = "rain-counter"
)

const gustWindow = 15 * time.Minute

// FroggitWH2600 returns the item table of the WH2600 receiver.
func FroggitWH2600(cfg Config, clk clock.Clock) Job {
	outdated := cfg.OutdatedTime
	if outdated <= 0 {
		outdated = defOutdatedTime
	}

	items := []Item{
		{
			Key:         KeyTimestamp,
			Field:       "CurrTime",
			Transformer: transform.Timestamp{Field: "CurrTime", Layout: transform.DeviceLayout, Outdated: outdated, Clock: clk},
		},
		str(KeyBatteryOutside, "outBattSta1"),
		str(KeyBatteryInside, "inBattSta"),
		float(KeyTempInside, "inTemp"),
		float(KeyHumiInside, "inHumi"),
		float(KeyPressureAbs, "AbsPress"),
		float(KeyTempOutside, "outTemp"),
		float(KeyHumiOutside, "outHumi"),
		float(KeyWindDirection, "windir"),
		// Firmware 2.2.8 reports windspeed, 4.x reports avgwind.
		float(KeyWindSpeed, "windspeed"),
		float(KeyWindSpeed, "avgwind"),
		float(KeySolarRadiation, "solarrad"),
		float(KeyUV, "uv"),
		float(KeyUVI, "uvi"),
		float(KeyRainHourly, "rainofhourly"),
		float(KeyRainCounter, "rainofyearly"),
		{
			Key:         KeyWindGust,
			Field:       "gustspeed",
			Transformer: transform.Gust{SpeedFields: []string{"windspeed", "avgwind"}, GustField: "gustspeed"},
			Aggregator:  timeseries.NewMaxSeries(gustWindow),
		},
	}

	// The device's own RelPress is unreliable.
	if cfg.Altitude != nil {
		items = append(items, Item{
			Key:         KeyPressureRel,
			Field:       "AbsPress",
			Transformer: transform.RelativePressure{PressureField: "AbsPress", TemperatureField: "outTemp", Altitude: *cfg.Altitude},
		})
	}

	return Job{Kind: KindFroggitWH2600, Items: items}
}

func float(key, field string) Item {
	return Item{Key: key, Field: field, Transformer: transform.Float{Field: field}}
}

func str(key, field string) Item {
	return Item{Key: key, Field: field, Transformer: transform.String{Field: field, Trim: true}}
}
