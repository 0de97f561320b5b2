package rv32

import "errors"

// Architectural conditions a guest program can trigger — illegal
// instruction, misalignment, a disabled extension — are never reported as
// Go errors. They're signaled through OutcomeTrap plus the committed
// mcause/mtval, exactly like the reference engine's own trap path, because
// they are not failures of the host program: a caller driving the hart
// expects to see them routinely and branches on Outcome, not on
// errors.Is. The one sentinel below is for a genuine host misconfiguration
// that has no architectural trap to route through.
var ErrNoFPBackend = errors.New("rv32: ext_f enabled but no FPBackend configured")
