// internal/browser/messages.go
package browser

import (
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// relayBinding is the CDP binding name the injected engine calls with
// serialized progress messages.
const relayBinding = "__tawseelRelay"

// decodeProgress parses one relayed payload. Unparseable payloads and
// unknown message types are dropped with a debug log: the protocol treats
// them as no-ops so a newer script never breaks an older host.
func decodeProgress(payload string, logger *zap.Logger) (schemas.ProgressMessage, bool) {
	var msg schemas.ProgressMessage
	if err := json.UnmarshalFromString(payload, &msg); err != nil {
		logger.Debug("Dropping malformed progress payload.", zap.Error(err))
		return schemas.ProgressMessage{}, false
	}
	if !msg.Known() {
		logger.Debug("Ignoring unknown progress message type.",
			zap.String("type", string(msg.Type)),
			zap.Int("version", msg.Version))
		return schemas.ProgressMessage{}, false
	}
	return msg, true
}
