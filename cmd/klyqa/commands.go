package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/wheelibin/klyqa/internal/capabilities"
	"github.com/wheelibin/klyqa/internal/coordinator"
	"github.com/wheelibin/klyqa/internal/events"
	"github.com/wheelibin/klyqa/internal/lights"
	"github.com/wheelibin/klyqa/internal/models"
	"github.com/wheelibin/klyqa/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the light's current status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Coordinator().Stop()

		snap, _ := a.Coordinator().Snapshot()
		return printJSON(capabilities.StatusFromSnapshot(snap))
	},
}

var (
	onBrightness int
	onRGB        string
	onKelvin     int
)

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the light on",
	Example: `  klyqa on
  klyqa on --brightness 128
  klyqa on --rgb 255,120,0
  klyqa on --kelvin 4000 --brightness 255`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildLightRequest(cmd)
		if err != nil {
			return err
		}

		a, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Coordinator().Stop()

		if err := a.Controller().TurnOn(cmd.Context(), req); err != nil {
			return err
		}
		snap, _ := a.Coordinator().Snapshot()
		return printJSON(capabilities.StatusFromSnapshot(snap))
	},
}

func init() {
	onCmd.Flags().IntVar(&onBrightness, "brightness", 0, "Brightness 0-255")
	onCmd.Flags().StringVar(&onRGB, "rgb", "", "Colour as r,g,b")
	onCmd.Flags().IntVar(&onKelvin, "kelvin", 0, "Colour temperature in Kelvin")
}

func buildLightRequest(cmd *cobra.Command) (models.LightRequest, error) {
	req := models.LightRequest{}
	if cmd.Flags().Changed("brightness") {
		req.Brightness = &onBrightness
	}
	if cmd.Flags().Changed("kelvin") {
		req.TemperatureKelvin = &onKelvin
	}
	if onRGB != "" {
		color, err := parseRGB(onRGB)
		if err != nil {
			return models.LightRequest{}, err
		}
		req.RGB = &color
	}
	return req, req.Validate()
}

func parseRGB(value string) (models.RGBColor, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return models.RGBColor{}, fmt.Errorf("--rgb %q: expected r,g,b", value)
	}

	channels := [3]uint8{}
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return models.RGBColor{}, fmt.Errorf("--rgb %q: %w", value, err)
		}
		channels[i] = uint8(v)
	}
	return models.RGBColor{Red: channels[0], Green: channels[1], Blue: channels[2]}, nil
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the light off",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Coordinator().Stop()

		return a.Controller().TurnOff(cmd.Context())
	},
}

var watchURL string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow status events from a running klyqad",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel, ReportTimestamp: true})
		consumer := events.NewConsumer(logger, watchURL)
		return consumer.Subscribe(ctx, func(event events.StatusEvent) {
			if err := printJSON(event); err != nil {
				logger.Error("Error printing event", "err", err)
			}
		})
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "http://localhost:8080/api/v1/events", "klyqad event stream URL")
}

// tuiService joins the coordinator's refresh with the controller's commands.
type tuiService struct {
	*coordinator.Coordinator
	*lights.LightController
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show the light in an interactive terminal view",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Coordinator().Stop()

		t := tui.NewTUI(tuiService{Coordinator: a.Coordinator(), LightController: a.Controller()})
		unsubscribe := a.Coordinator().Subscribe(t.OnRefresh)
		defer unsubscribe()

		return t.Run()
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
