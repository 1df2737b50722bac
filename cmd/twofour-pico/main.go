//go:build tinygo

// cmd/twofour-pico/main.go
//
// Firmware for a Raspberry Pi Pico: an SSD1306 OLED on I2C1 (GP6 SDA, GP7
// SCL), a break-beam receiver on GP21 with a pull-up and the onboard LED
// mirroring the beam. The board has no filesystem, so the built-in settings
// are used and logs go to the USB serial console.

package main

import (
	"context"
	"machine"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingrea/two-four-eighteen/internal/config"
	"github.com/kingrea/two-four-eighteen/internal/logging"
	"github.com/kingrea/two-four-eighteen/internal/orchestrator"
	"github.com/kingrea/two-four-eighteen/internal/panel/ssd1306"
	"github.com/kingrea/two-four-eighteen/internal/sensor"
)

const (
	i2cFrequency = 400 * machine.KHz
	beamPin      = machine.GP21
	ledPin       = machine.LED
)

func main() {
	settings := config.Default()
	logger := logging.NewWriter(os.Stdout, zerolog.InfoLevel)

	if err := machine.I2C1.Configure(machine.I2CConfig{
		Frequency: i2cFrequency,
		SDA:       machine.GP6,
		SCL:       machine.GP7,
	}); err != nil {
		logger.Error().Err(err).Msg("configure i2c")
		return
	}
	panel := ssd1306.NewI2C(machine.I2C1, settings.Panel.I2CAddress, settings.Display.Width, settings.Display.Height)

	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	beamPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	mailbox := sensor.NewEdgeMailbox(settings.Channels.Edges)
	err := beamPin.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		level := sensor.Broken
		if p.Get() {
			level = sensor.Restored
		}
		mailbox.Offer(sensor.Edge{Level: level, At: time.Now()})
	})
	if err != nil {
		logger.Error().Err(err).Msg("beam interrupt")
		return
	}

	orch, err := orchestrator.New(settings, panel, mailbox.Edges(),
		orchestrator.WithLogger(logger),
		orchestrator.WithIndicator(sensor.IndicatorFunc(ledPin.Set)),
	)
	if err != nil {
		logger.Error().Err(err).Msg("build tasks")
		return
	}
	if err := orch.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("tasks stopped")
	}
}
