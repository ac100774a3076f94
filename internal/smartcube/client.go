package smartcube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

var (
	ErrNotConnected     = errors.New("smartcube: not connected to device")
	ErrAlreadyConnected = errors.New("smartcube: already connected to a device")
	ErrDeviceNotFound   = errors.New("smartcube: device not found")
	ErrServiceNotFound  = errors.New("smartcube: GoCube service not found")
)

var (
	serviceUUID = mustParseUUID(ServiceUUID)
	txCharUUID  = mustParseUUID(TxCharUUID)
	rxCharUUID  = mustParseUUID(RxCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ScanResult is a discovered GoCube.
type ScanResult struct {
	Name    string
	Address bluetooth.Address
	RSSI    int16
}

// Client manages the BLE connection to one GoCube.
type Client struct {
	adapter *bluetooth.Adapter
	device  bluetooth.Device
	rxChar  bluetooth.DeviceCharacteristic

	mu         sync.RWMutex
	connected  bool
	deviceName string

	onNotification func([]byte)
}

// NewClient enables the default adapter.
func NewClient() (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	return &Client{adapter: adapter}, nil
}

// SetNotificationCallback sets the receiver of raw TX notifications.
func (c *Client) SetNotificationCallback(cb func([]byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNotification = cb
}

// Scan collects GoCube advertisements until timeout or ctx is done.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]ScanResult, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		results []ScanResult
	)
	seen := make(map[string]bool)
	done := make(chan error, 1)

	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), "gocube") {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			addr := result.Address.String()
			if seen[addr] {
				return
			}
			seen[addr] = true
			results = append(results, ScanResult{Name: name, Address: result.Address, RSSI: result.RSSI})
		})
	}()

	select {
	case <-time.After(timeout):
	case <-ctx.Done():
	}
	if err := c.adapter.StopScan(); err != nil {
		return nil, fmt.Errorf("failed to stop scan: %w", err)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// Find scans until a cube whose name or address matches want appears. An
// empty want accepts the first cube.
func (c *Client) Find(ctx context.Context, want string, timeout time.Duration) (ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found := make(chan ScanResult, 1)
	var once sync.Once
	go func() {
		_ = c.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), "gocube") {
				return
			}
			if want != "" && want != name && want != result.Address.String() {
				return
			}
			once.Do(func() {
				found <- ScanResult{Name: name, Address: result.Address, RSSI: result.RSSI}
			})
		})
	}()

	select {
	case r := <-found:
		_ = c.adapter.StopScan()
		return r, nil
	case <-ctx.Done():
		_ = c.adapter.StopScan()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ScanResult{}, ErrDeviceNotFound
		}
		return ScanResult{}, ctx.Err()
	}
}

// Connect connects to a scanned cube and subscribes to its notifications.
func (c *Client) Connect(result ScanResult) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	device, err := c.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		device.Disconnect()
		return ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to discover characteristics: %w", err)
	}

	var txChar, rxChar bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			txChar = ch
		case rxCharUUID:
			rxChar = ch
		}
	}

	if err := txChar.EnableNotifications(c.handleNotification); err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to enable notifications: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rxChar
	c.connected = true
	c.deviceName = result.Name
	c.mu.Unlock()

	return c.SendCommand(CmdRequestBattery)
}

// Disconnect drops the connection.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	err := c.device.Disconnect()
	c.connected = false
	c.deviceName = ""
	return err
}

// IsConnected reports whether a cube is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DeviceName returns the connected cube's name.
func (c *Client) DeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceName
}

// SendCommand writes a command frame.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected {
		return ErrNotConnected
	}

	data := BuildCommand(cmd)
	if _, err := c.rxChar.WriteWithoutResponse(data); err != nil {
		if _, err := c.rxChar.Write(data); err != nil {
			return fmt.Errorf("failed to send command 0x%02X: %w", cmd, err)
		}
	}
	return nil
}

func (c *Client) handleNotification(data []byte) {
	c.mu.RLock()
	cb := c.onNotification
	c.mu.RUnlock()
	if cb != nil {
		cb(append([]byte(nil), data...))
	}
}
