//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tilepaint/shader"
)

// ModuleCache uploads compiled shader variants to a device and keeps
// one hal.ShaderModule per configuration cache key. Tiles that share
// a binding shape share a module.
type ModuleCache struct {
	mu      sync.Mutex
	device  hal.Device
	modules map[string]hal.ShaderModule
}

// NewModuleCache creates a cache bound to a device.
func NewModuleCache(device hal.Device) (*ModuleCache, error) {
	if device == nil {
		return nil, fmt.Errorf("wgpu: device is required")
	}
	return &ModuleCache{
		device:  device,
		modules: make(map[string]hal.ShaderModule),
	}, nil
}

// Upload creates (or returns the cached) shader module for a
// compiled variant.
func (c *ModuleCache) Upload(v *shader.Variant) (hal.ShaderModule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.modules[v.CacheKey]; ok {
		return m, nil
	}

	module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "paint" + v.CacheKey,
		Source: hal.ShaderSource{
			SPIRV: v.SPIRV,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: failed to create shader module for %q: %w", v.CacheKey, err)
	}

	c.modules[v.CacheKey] = module
	return module, nil
}

// Get returns the uploaded module for a cache key, or nil if the
// variant has not been uploaded.
func (c *ModuleCache) Get(cacheKey string) hal.ShaderModule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modules[cacheKey]
}

// Len returns the number of uploaded modules.
func (c *ModuleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.modules)
}

// Destroy releases every uploaded module.
func (c *ModuleCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, module := range c.modules {
		c.device.DestroyShaderModule(module)
		delete(c.modules, key)
	}
}
