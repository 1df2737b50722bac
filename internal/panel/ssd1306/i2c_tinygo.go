//go:build tinygo

package ssd1306

import (
	"tinygo.org/x/drivers"
	driver "tinygo.org/x/drivers/ssd1306"
)

// NewI2C configures the controller at address on bus and returns a panel
// driving it.
func NewI2C(bus drivers.I2C, address uint16, width, height int) *Panel {
	dev := driver.NewI2C(bus)
	dev.Configure(driver.Config{
		Address: address,
		Width:   int16(width),
		Height:  int16(height),
	})
	dev.ClearDisplay()
	return New(width, height, Device{
		SetBuffer: dev.SetBuffer,
		Display:   dev.Display,
		Command: func(cmd uint8) error {
			dev.Command(cmd)
			return nil
		},
	})
}
