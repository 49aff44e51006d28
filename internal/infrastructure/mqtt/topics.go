package mqtt

import "fmt"

// TopicPrefix is the base for all inventory topics.
// Scheme: homeinv/device/{id}/{aspect}
const TopicPrefix = "homeinv"

// Topics provides builders for inventory MQTT topics. Using these helpers
// keeps topic naming consistent across publishers and subscribers.
type Topics struct{}

// DeviceStatus returns the retained on/off state topic for a device.
//
// Example: homeinv/device/42/status
func (Topics) DeviceStatus(deviceID int64) string {
	return fmt.Sprintf("%s/device/%d/status", TopicPrefix, deviceID)
}

// DeviceValue returns the retained information reading topic for a device.
//
// Example: homeinv/device/42/value
func (Topics) DeviceValue(deviceID int64) string {
	return fmt.Sprintf("%s/device/%d/value", TopicPrefix, deviceID)
}

// SystemStatus returns the service online/offline topic.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}
