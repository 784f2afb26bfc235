package gram

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// SessionTag returns a short, human-loggable fingerprint of cfg: the first
// 10 bytes of blake3(canonical-cbor(cfg)), hex-encoded. It has no protocol
// effect — it exists purely so an operator watching the trusted
// initializer's and every data party's logs can confirm they are all
// looking at the same round, the way the reference design's session ID
// scopes messages to one protocol run (here, there is no handler/session
// machinery to scope, only log lines to correlate).
func SessionTag(cfg *Config) (string, error) {
	preimage, err := cfg.Marshal()
	if err != nil {
		return "", fmt.Errorf("gram: session tag: %w", err)
	}
	sum := blake3.Sum256(preimage)
	return hex.EncodeToString(sum[:10]), nil
}
