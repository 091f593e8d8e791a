// ABOUTME: Host and device abstraction over platform audio backends
// ABOUTME: Capability descriptors, configuration negotiation, stream opening
// Package device maps heterogeneous platform audio capabilities onto the
// common format model and opens streams against concrete devices.
//
// A Host enumerates devices for one backend (malgo, oto, portaudio, or
// the virtual null host). A Device reports capability descriptors per
// direction and share mode and opens streams at a negotiated
// StreamConfig. Negotiation itself is pure data: DeviceFormats.
// ToStreamConfig deterministically resolves caller preferences against
// the descriptor.
//
// Example:
//
//	host, _ := device.NewHost("malgo")
//	dev, _ := host.DefaultOutputDevice(device.RoleMultimedia)
//	formats, _ := dev.OutputFormats(device.Share)
//	cfg, _ := formats.ToStreamConfig(device.Share, 2, nil, audio.Separate, 512, 48000)
//	s, _ := dev.OpenOutputStream(cfg, renderCallback)
//	s.Start()
package device
