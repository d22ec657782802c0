// Command acer-backlight controls the Acer gaming keyboard backlight:
// keypresses turn it on, an idle timeout turns it off, and HTTP/MQTT expose
// get/set brightness. The firmware offers no readback, so the daemon tracks
// what it believes is applied and skips every write it can.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lau-bin/acer-brightness/internal/activity"
	"github.com/lau-bin/acer-brightness/internal/backlight"
	"github.com/lau-bin/acer-brightness/internal/config"
	"github.com/lau-bin/acer-brightness/internal/mqtt"
	"github.com/lau-bin/acer-brightness/internal/sched"
	"github.com/lau-bin/acer-brightness/internal/status"
	"github.com/lau-bin/acer-brightness/internal/web"
	"github.com/lau-bin/acer-brightness/internal/wmi"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	device := flag.String("device", "", "Backlight character device (overrides config)")
	level := flag.Int("level", -1, "Default brightness 0-100 (overrides config)")
	autoOff := flag.Int("auto-off-ms", -1, "Idle timeout in ms, 0 disables (overrides config)")
	debounce := flag.Int("debounce-ms", -1, "Turn-on debounce in ms, 0 disables (overrides config)")
	applyOnLoad := flag.Bool("apply-on-load", false, "Apply brightness immediately at startup")
	inputs := flag.String("input", "", "Comma-separated evdev devices to watch (overrides config)")
	broker := flag.String("broker", "", `MQTT broker address, "off" disables (overrides config)`)
	httpAddr := flag.String("http", "", "HTTP listen address (overrides config)")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyOverrides(&cfg, overrides{
		device:      *device,
		level:       *level,
		autoOffMs:   *autoOff,
		debounceMs:  *debounce,
		applyOnLoad: *applyOnLoad,
		inputs:      *inputs,
		broker:      *broker,
		httpAddr:    *httpAddr,
	})
	for _, fix := range cfg.Sanitize() {
		log.Printf("config: clamped %s", fix)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// overrides holds flag values that replace config fields when set.
type overrides struct {
	device      string
	level       int
	autoOffMs   int
	debounceMs  int
	applyOnLoad bool
	inputs      string
	broker      string
	httpAddr    string
}

func applyOverrides(cfg *config.Config, o overrides) {
	if o.device != "" {
		cfg.Backlight.Device = o.device
	}
	if o.level >= 0 {
		cfg.Backlight.DefaultLevel = o.level
	}
	if o.autoOffMs >= 0 {
		cfg.Backlight.AutoOffMs = o.autoOffMs
	}
	if o.debounceMs >= 0 {
		cfg.Backlight.DebounceMs = o.debounceMs
	}
	if o.applyOnLoad {
		cfg.Backlight.ApplyOnLoad = true
	}
	if o.inputs != "" {
		cfg.Activity.Devices = splitDevices(o.inputs)
	}
	if o.broker != "" {
		cfg.MQTT.Broker = o.broker
	}
	if o.httpAddr != "" {
		cfg.HTTP.Addr = o.httpAddr
	}
}

// splitDevices parses a comma-separated device list, dropping empty entries.
func splitDevices(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

func run(cfg config.Config) error {
	// Hardware adapter first: without the device node there is nothing to
	// control, and startup must fail.
	dev, err := wmi.NewDevice(cfg.Backlight.Device, cfg.Backlight.PayloadToggle)
	if err != nil {
		return fmt.Errorf("init backlight device: %w", err)
	}

	ctrl := backlight.New(dev, cfg.Backlight.DefaultLevel)

	tracker := status.NewTracker(time.Now(), status.Config{
		DefaultLevel:  cfg.Backlight.DefaultLevel,
		AutoOffMs:     int64(cfg.Backlight.AutoOffMs),
		DebounceMs:    int64(cfg.Backlight.DebounceMs),
		ApplyOnLoad:   cfg.Backlight.ApplyOnLoad,
		PayloadToggle: cfg.Backlight.PayloadToggle,
		Device:        dev.Path(),
		Broker:        cfg.MQTT.Broker,
		HTTPAddr:      cfg.HTTP.Addr,
		HeartbeatMs:   int64(cfg.MQTT.HeartbeatMs),
	})

	// MQTT is optional; the daemon is fully usable with HTTP alone.
	var pub mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		client, err := mqtt.NewRealClient(cfg.MQTT.Broker, func(level int) error {
			return ctrl.SetLevel(level, time.Now())
		})
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer client.Close()
		pub = client
		mqttStatus = client
		log.Printf("mqtt: connected to %s", cfg.MQTT.Broker)
	}

	// Every committed state change lands in the tracker and, when MQTT is
	// up, on the events topic.
	ctrl.SetNotify(func(ev backlight.Event) {
		tracker.Update(ctrl.Level(), ctrl.Applied(), ev.Lit, ctrl.CountsSnapshot())
		if pub != nil {
			if err := pub.PublishEvent(ev); err != nil {
				log.Printf("mqtt: publish event: %v", err)
			}
		}
	})

	coord := sched.NewCoordinator(ctrl, sched.Config{
		AutoOff:     time.Duration(cfg.Backlight.AutoOffMs) * time.Millisecond,
		Debounce:    time.Duration(cfg.Backlight.DebounceMs) * time.Millisecond,
		ApplyOnLoad: cfg.Backlight.ApplyOnLoad,
	}, time.Now)
	coord.Startup()
	tracker.Update(ctrl.Level(), ctrl.Applied(), ctrl.Lit(), ctrl.CountsSnapshot())

	sources, err := openActivitySources(cfg.Activity)
	if err != nil {
		return err
	}
	for _, src := range sources {
		if err := src.Start(coord.OnActivity); err != nil {
			return fmt.Errorf("start activity source: %w", err)
		}
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, ctrl)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http: listening on %s", cfg.HTTP.Addr)
	}

	if pub != nil {
		publishSystem(pub, tracker, mqttStatus, "STARTUP", "")
	}

	log.Printf("started: level=%d auto-off=%dms debounce=%dms apply-on-load=%v toggle=%d",
		cfg.Backlight.DefaultLevel, cfg.Backlight.AutoOffMs, cfg.Backlight.DebounceMs,
		cfg.Backlight.ApplyOnLoad, cfg.Backlight.PayloadToggle)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var heartbeat <-chan time.Time
	if cfg.MQTT.HeartbeatMs > 0 && pub != nil {
		ticker := time.NewTicker(time.Duration(cfg.MQTT.HeartbeatMs) * time.Millisecond)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	s := waitLoop(sigCh, heartbeat, func() {
		if pub != nil {
			publishSystem(pub, tracker, mqttStatus, "HEARTBEAT", "")
		}
	})
	log.Printf("received %v, shutting down", s)

	// Drain deferred work before anything it depends on goes away.
	coord.Shutdown()
	for _, src := range sources {
		if err := src.Close(); err != nil {
			log.Printf("close activity source: %v", err)
		}
	}

	if pub != nil {
		publishSystem(pub, tracker, mqttStatus, "SHUTDOWN", signalName(s))
	}
	return nil
}

// waitLoop blocks until a signal arrives, firing onHeartbeat on each tick.
func waitLoop(sig <-chan os.Signal, heartbeat <-chan time.Time, onHeartbeat func()) os.Signal {
	for {
		select {
		case s := <-sig:
			return s
		case <-heartbeat:
			onHeartbeat()
		}
	}
}

func openActivitySources(cfg config.ActivityConfig) ([]activity.Source, error) {
	var sources []activity.Source

	if len(cfg.Devices) > 0 {
		src, err := activity.NewEvdevSource(cfg.Devices)
		if err != nil {
			// Keep running: brightness is still controllable over HTTP/MQTT,
			// there is just no keypress auto-on.
			log.Printf("activity: %v (keypress auto-on disabled)", err)
		} else {
			sources = append(sources, src)
		}
	}

	if cfg.GPIOPin >= 0 {
		src, err := activity.NewGPIOSource(cfg.GPIOChip, cfg.GPIOPin)
		if err != nil {
			log.Printf("activity: %v (gpio activity disabled)", err)
		} else {
			sources = append(sources, src)
		}
	}

	return sources, nil
}

func publishSystem(pub mqtt.Publisher, tracker *status.Tracker, connStatus mqtt.ConnectionStatus, event, reason string) {
	if connStatus != nil {
		tracker.SetMQTTConnected(connStatus.IsConnected())
	}
	snap := tracker.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   event == "STARTUP" || event == "SHUTDOWN",
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := pub.PublishSystem(ev); err != nil {
		log.Printf("mqtt: publish %s: %v", event, err)
	} else {
		log.Printf("mqtt: published %s", event)
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
