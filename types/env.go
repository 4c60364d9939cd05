package types

// ------------------------
// Temperature & humidity
// ------------------------

// FaultHumidity is shown in place of a reading when the sensor cannot be
// read. It lies outside 0..100 so it is never mistaken for a measurement.
const FaultHumidity float32 = 101.0

// Reading is one decoded sensor sample.
type Reading struct {
	Temperature float32 `json:"temperature_c"` // °C
	Humidity    float32 `json:"humidity_pct"`  // %RH
}

// SensorInfo describes where a sensor lives.
type SensorInfo struct {
	Sensor string `json:"sensor"` // "dht20", "aht20"
	Addr   uint16 `json:"addr"`   // I2C address
	Bus    string `json:"bus"`    // "i2c0", ...
}
