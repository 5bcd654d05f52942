package sensors

import (
	"fmt"

	"codeberg.org/mutker/barfeed/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// GPU reads the temperature of the first NVIDIA device through NVML.
// Machines without the driver fail like any other absent sensor.
type GPU struct {
	device nvml.Device
}

func NewGPU() (*GPU, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, errFactory.WithData(errors.ErrSensorUnavailable, nvml.ErrorString(ret))
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		_ = nvml.Shutdown()
		return nil, errFactory.WithData(errors.ErrSensorUnavailable, nvml.ErrorString(ret))
	}

	return &GPU{device: device}, nil
}

func (g *GPU) Temperature() (int, error) {
	temp, ret := g.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return 0, errors.New().WithData(errors.ErrSensorUnavailable, nvml.ErrorString(ret))
	}

	return int(temp), nil
}

func (g *GPU) Shutdown() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return errors.New().WithMessage(errors.ErrShutdownFailed, fmt.Sprintf("nvml shutdown: %v", nvml.ErrorString(ret)))
	}

	return nil
}
