package monitor

import (
	"envmon-go/drivers/lcd"
	"envmon-go/types"
	"envmon-go/x/mathx"
	"envmon-go/x/strconvx"
)

// Board self-test routines. They reuse the monitor's collaborators but
// report through the fault LED and display instead of the normal screen.

const (
	blinkMs      = 500
	sensorWaitMs = 15_000
)

// SweepLevels are the humidities the LED test walks through, one per
// bar element.
var SweepLevels = [...]float32{10, 30, 50, 70, 90}

// BlinkCode maps a reading to the diagnostic blink count: 1 for
// 10 < h < 90, 2 below 10, 3 above 90, 4 for anything else (exactly 10 or
// 90, NaN). A read error is a solid LED.
func BlinkCode(r types.Reading, err error) (blinks int, solid bool) {
	if err != nil {
		return 0, true
	}
	h := r.Humidity
	switch {
	case h > 10 && h < 90:
		return 1, false
	case h < 10:
		return 2, false
	case h > 90:
		return 3, false
	}
	return 4, false
}

// Blink flashes ind n times, 500 ms on and 500 ms off.
func Blink(ind Indicator, d Sleeper, n int) {
	for i := 0; i < n; i++ {
		ind.Set(true)
		d.DelayMs(blinkMs)
		ind.Set(false)
		d.DelayMs(blinkMs)
	}
}

// LEDSweep shows each of SweepLevels on the gauge for one blink period.
func LEDSweep(g Gauge, d Sleeper) {
	for _, h := range SweepLevels {
		g.Update(h)
		d.DelayMs(blinkMs)
		g.Clear()
		d.DelayMs(blinkMs)
	}
}

// SensorCheck reads once and signals the result on ind, then waits out the
// sensor test interval.
func SensorCheck(s Sensor, ind Indicator, d Sleeper) (types.Reading, int, error) {
	r, err := s.Read()
	n, solid := BlinkCode(r, err)
	if solid {
		ind.Set(true)
	} else {
		ind.Set(false)
		Blink(ind, d, n)
	}
	d.DelayMs(sensorWaitMs)
	return r, n, err
}

// Banner clears the display and writes two lines.
func Banner(disp lcd.Display, top, bottom string) error {
	if err := disp.SetDisplay(true); err != nil {
		return err
	}
	if err := disp.SetBacklight(true); err != nil {
		return err
	}
	if err := disp.Clear(); err != nil {
		return err
	}
	if err := disp.Print(top); err != nil {
		return err
	}
	if err := disp.SetCursor(0, 1); err != nil {
		return err
	}
	return disp.Print(bottom)
}

// FormatValue renders v rounded to decimals followed by unit.
func FormatValue(v float32, decimals uint32, unit string) string {
	r := mathx.RoundToDecimal(v, decimals)
	return strconvx.FormatFloat(float64(r), 'f', int(decimals), 32) + unit
}

// LCDCheck prints a fixed test pattern.
func LCDCheck(disp lcd.Display) error {
	return Banner(disp, "Testing", FormatValue(55.32, 1, " %"))
}

// CheckAll exercises the display, then the sensor, then the gauge, naming
// each on the display as it goes. The first display error stops the run.
func CheckAll(d Deps) error {
	if err := Banner(d.Display, "Test: LCD", "Hello"); err != nil {
		return err
	}
	d.Delay.DelayMs(2 * blinkMs)

	r, err := d.Sensor.Read()
	msg := "read failed"
	if err == nil {
		msg = FormatValue(r.Humidity, 1, " %")
	}
	if err := Banner(d.Display, "Test: Sensor", msg); err != nil {
		return err
	}
	n, solid := BlinkCode(r, err)
	if solid {
		d.Fault.Set(true)
	} else {
		Blink(d.Fault, d.Delay, n)
	}

	if err := Banner(d.Display, "Test: LEDs", "sweep"); err != nil {
		return err
	}
	LEDSweep(d.Gauge, d.Delay)
	return nil
}
