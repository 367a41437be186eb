//go:build !nogpu

// Package wgpu bootstraps a WebGPU device for tile paint rendering
// and uploads compiled shader variants as GPU shader modules.
package wgpu

import (
	"fmt"
	"log"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// Config sizes the backend for its paint workload.
type Config struct {
	// PowerPreference selects the adapter. The zero value requests
	// high performance; paint buffer uploads are bandwidth-bound.
	PowerPreference gputypes.PowerPreference

	// MaxPaintBufferBytes is the largest single paint vertex buffer
	// the tile set will allocate. Init fails when the device cannot
	// hold a buffer of that size. Zero skips the check.
	MaxPaintBufferBytes uint64
}

// Backend owns the WebGPU instance, adapter, device and queue used
// for paint buffer uploads and variant shader modules.
//
// Init must be called before the device or queue are used; Close
// releases everything in reverse order of creation.
type Backend struct {
	mu  sync.RWMutex
	cfg Config

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	info   gputypes.AdapterInfo
	limits gputypes.Limits

	initialized bool
}

// NewBackend creates an uninitialized backend. A zero Config requests
// a high performance adapter and skips the buffer budget check.
func NewBackend(cfg Config) *Backend {
	if cfg.PowerPreference == gputypes.PowerPreferenceNone {
		cfg.PowerPreference = gputypes.PowerPreferenceHighPerformance
	}
	return &Backend{cfg: cfg}
}

// Init creates the GPU instance, requests an adapter, and creates the
// device and queue. The device limits are checked against the paint
// buffer budget before the device is handed out.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	b.instance = core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: b.cfg.PowerPreference,
	})
	if err != nil {
		b.teardownLocked()
		return fmt.Errorf("wgpu: no suitable adapter: %w", err)
	}
	b.adapter = adapterID

	if b.info, err = core.GetAdapterInfo(adapterID); err != nil {
		log.Printf("wgpu: failed to get adapter info: %v", err)
	} else {
		log.Printf("wgpu: GPU: %s (%s, %s)", b.info.Name, b.info.DeviceType, b.info.Backend)
	}

	desc := gputypes.DefaultDeviceDescriptor()
	desc.Label = "tilepaint-device"
	deviceID, err := core.RequestDevice(adapterID, &desc)
	if err != nil {
		b.teardownLocked()
		return fmt.Errorf("wgpu: device creation failed: %w", err)
	}
	b.device = deviceID

	if b.limits, err = core.GetDeviceLimits(deviceID); err != nil {
		b.teardownLocked()
		return fmt.Errorf("wgpu: device limits unavailable: %w", err)
	}
	if b.cfg.MaxPaintBufferBytes > b.limits.MaxBufferSize {
		b.teardownLocked()
		return fmt.Errorf("wgpu: paint buffer budget of %d bytes exceeds device limit %d",
			b.cfg.MaxPaintBufferBytes, b.limits.MaxBufferSize)
	}

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		b.teardownLocked()
		return fmt.Errorf("wgpu: queue retrieval failed: %w", err)
	}
	b.queue = queueID

	b.initialized = true
	log.Printf("wgpu: backend initialized, max buffer size %d", b.limits.MaxBufferSize)

	return nil
}

// Close releases all GPU resources. The backend must not be used
// after Close.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	b.teardownLocked()
	b.initialized = false
}

// teardownLocked releases whatever was created so far, in reverse
// order of creation. Callers hold b.mu.
func (b *Backend) teardownLocked() {
	// The queue is released with its device.
	b.queue = core.QueueID{}

	if !b.device.IsZero() {
		if err := core.DeviceDrop(b.device); err != nil {
			log.Printf("wgpu: error releasing device: %v", err)
		}
		b.device = core.DeviceID{}
	}
	if !b.adapter.IsZero() {
		if err := core.AdapterDrop(b.adapter); err != nil {
			log.Printf("wgpu: error releasing adapter: %v", err)
		}
		b.adapter = core.AdapterID{}
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
	b.info = gputypes.AdapterInfo{}
	b.limits = gputypes.Limits{}
}

// IsInitialized reports whether Init has completed successfully.
func (b *Backend) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// AdapterInfo returns information about the selected GPU, zero before
// Init.
func (b *Backend) AdapterInfo() gputypes.AdapterInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.info
}

// Limits returns the device limits, zero before Init.
func (b *Backend) Limits() gputypes.Limits {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.limits
}

// Device returns the GPU device ID, zero before Init.
func (b *Backend) Device() core.DeviceID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.device
}

// Queue returns the GPU queue ID, zero before Init.
func (b *Backend) Queue() core.QueueID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue
}
