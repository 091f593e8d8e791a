// ABOUTME: Entry point for the chordial playback tool
// ABOUTME: Lists devices or mixes audio files onto one output stream
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/device"
	"github.com/Chordial-Project/chordial-go/pkg/audio/mixer"
	"github.com/Chordial-Project/chordial-go/pkg/audio/player"
	"github.com/Chordial-Project/chordial-go/pkg/audio/stream"
)

var (
	list       = flag.Bool("list", false, "List hosts, devices and their capabilities")
	hostName   = flag.String("host", "", "Audio host to use (default: first available)")
	deviceName = flag.String("device", "", "Output device name substring (default: system default)")
	rate       = flag.Float64("rate", 48000, "Preferred frame rate in Hz")
	frames     = flag.Int("frames", 512, "Preferred period size in frames")
	toneFreq   = flag.Float64("tone", 0, "Play a test tone at this frequency instead of files")
	volume     = flag.Float64("volume", 1.0, "Playback gain per file")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *list {
		listHosts()
		return
	}

	files := flag.Args()
	if len(files) == 0 && *toneFreq <= 0 {
		fmt.Fprintln(os.Stderr, "usage: chordial-play [flags] file.wav [file.mp3 ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := play(files); err != nil {
		logrus.Fatal(err)
	}
}

func listHosts() {
	for _, name := range device.Available() {
		host, err := device.NewHost(name)
		if err != nil {
			fmt.Printf("%s: unavailable (%v)\n", name, err)
			continue
		}
		devices, err := host.Devices()
		if err != nil {
			fmt.Printf("%s: enumeration failed (%v)\n", name, err)
			host.Close()
			continue
		}
		fmt.Printf("%s (%d devices)\n", name, len(devices))
		for _, dev := range devices {
			fmt.Printf("  %s\n", dev.Name())
			for _, mode := range []device.ShareMode{device.Share, device.Exclusive} {
				formats, ok := dev.OutputFormats(mode)
				if !ok {
					continue
				}
				fmt.Printf("    %s: up to %d channels, rates %v\n",
					mode, formats.MaxChannels, formats.FrameRates)
				fmt.Printf("    formats %v, buffer %d-%d frames\n",
					formats.Formats.Formats(), formats.MinBufferSize, formats.MaxBufferSize)
			}
		}
		host.Close()
	}
}

func openHost() (device.Host, error) {
	if *hostName != "" {
		return device.NewHost(*hostName)
	}
	var lastErr error
	for _, name := range device.Available() {
		host, err := device.NewHost(name)
		if err == nil {
			return host, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no audio host available: %w", lastErr)
}

func pickDevice(host device.Host) (device.Device, error) {
	if *deviceName == "" {
		dev, ok := host.DefaultOutputDevice(device.RoleMultimedia)
		if !ok {
			return nil, fmt.Errorf("host %s has no default output device", host.Name())
		}
		return dev, nil
	}
	devices, err := host.Devices()
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		if strings.Contains(strings.ToLower(dev.Name()), strings.ToLower(*deviceName)) {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("no output device matching %q on host %s", *deviceName, host.Name())
}

func play(files []string) error {
	host, err := openHost()
	if err != nil {
		return err
	}
	defer host.Close()

	dev, err := pickDevice(host)
	if err != nil {
		return err
	}
	logrus.Infof("Using %s output %q", host.Name(), dev.Name())

	formats, ok := dev.OutputFormats(device.Share)
	if !ok {
		return fmt.Errorf("device %q does not support shared-mode output", dev.Name())
	}
	cfg, err := formats.ToStreamConfig(device.Share, 2, nil, audio.Separate, *frames, *rate)
	if err != nil {
		return err
	}
	logrus.Infof("Negotiated %d channels %v at %g Hz, %d-frame buffer",
		cfg.Channels, cfg.Format, cfg.FrameRate, cfg.BufferSize)

	controls := mixer.NewControls()
	counts := make(mixer.ChanNotifier, 8)
	engine := mixer.NewEngine(controls, counts)

	s, err := dev.OpenOutputStream(cfg, func(v *stream.OutputView) {
		engine.Render(cfg.FrameRate, v.Planar())
	})
	if err != nil {
		return err
	}
	defer s.Close()

	for _, path := range files {
		sound, err := player.Load(path)
		if err != nil {
			return err
		}
		if sound.FrameRate() != cfg.FrameRate {
			logrus.Warnf("%s is %g Hz but the stream runs at %g Hz; playback will be off-speed",
				path, sound.FrameRate(), cfg.FrameRate)
		}
		controls.Play(sound.Voice(float32(*volume)))
	}
	if *toneFreq > 0 {
		controls.Play(player.NewTone(*toneFreq, 0.5*float32(*volume), 2*time.Second))
	}

	s.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case n := <-counts:
			logrus.Infof("Playing %d sources", n)
			if n == 0 {
				// Let the ring drain before tearing the stream down.
				time.Sleep(200 * time.Millisecond)
				s.Stop()
				if err := s.CheckError(); err != nil {
					return err
				}
				logrus.Infof("Done (%d underruns)", s.Underruns())
				return nil
			}
		case sig := <-sigChan:
			logrus.Infof("Received %v, stopping", sig)
			controls.Clear()
			s.Stop()
			return s.CheckError()
		}
	}
}
