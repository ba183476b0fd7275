package ingest

import (
	"encoding/json"
	"fmt"
)

// Inbound payloads are small key-value JSON documents published by the
// sensor firmware. Fields are decoded into pointers so a missing field
// can be told apart from a zero value.

type temperaturePayload struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

type brightnessPayload struct {
	Brightness *float64 `json:"brightness"`
}

func decodeTemperature(raw []byte) (temperature, humidity float64, err error) {
	var p temperaturePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, 0, fmt.Errorf("malformed payload: %w", err)
	}
	if p.Temperature == nil {
		return 0, 0, fmt.Errorf("payload missing temperature field")
	}
	if p.Humidity == nil {
		return 0, 0, fmt.Errorf("payload missing humidity field")
	}
	return *p.Temperature, *p.Humidity, nil
}

func decodeBrightness(raw []byte) (float64, error) {
	var p brightnessPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, fmt.Errorf("malformed payload: %w", err)
	}
	if p.Brightness == nil {
		return 0, fmt.Errorf("payload missing brightness field")
	}
	return *p.Brightness, nil
}
