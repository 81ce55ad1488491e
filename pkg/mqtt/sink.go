package mqtt

import (
	"fmt"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
)

const enforcementTopic = "stachio/watchdog/enforcement"

// EnforcementSink publishes watchdog enforcement events to the MQTT broker
// so external services (dashboard, audit collectors) can consume them.
type EnforcementSink struct {
	mc *MqttCommunicator
}

// NewEnforcementSink wraps a communicator as a watchdog event sink
func NewEnforcementSink(mc *MqttCommunicator) *EnforcementSink {
	return &EnforcementSink{mc: mc}
}

var _ watchdog.EventSink = (*EnforcementSink)(nil)

// PublishEnforcement publishes the event without blocking the executor
func (s *EnforcementSink) PublishEnforcement(ev watchdog.Event) {
	if s.mc == nil || !s.mc.IsConnected() {
		return
	}

	go func() {
		if err := s.mc.Publish(enforcementTopic, ev); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo publicar el evento de watchdog en MQTT: %v", err), "MQTT")
		}
	}()
}
