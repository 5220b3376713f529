// AngelaMos | 2026
// evaluator.go

package board

// CanRead decides read access. A board without a policy record is open
// to everyone. A stored record is evaluated whether or not it is active.
func CanRead(policy *Policy, caller Caller) bool {
	if policy == nil {
		return true
	}
	return allows(policy.ReadPermission, caller)
}

// CanWrite decides write access. Without a policy record only
// authenticated admins may write.
func CanWrite(policy *Policy, caller Caller) bool {
	if policy == nil {
		return caller.Authenticated && caller.IsAdmin
	}
	return allows(policy.WritePermission, caller)
}

// Allowed dispatches on mode.
func Allowed(policy *Policy, mode Mode, caller Caller) bool {
	if mode == ModeWrite {
		return CanWrite(policy, caller)
	}
	return CanRead(policy, caller)
}

func allows(level Level, caller Caller) bool {
	switch level {
	case LevelAll:
		return true
	case LevelFree:
		return caller.Authenticated
	case LevelSupporter:
		return caller.Authenticated &&
			(caller.Tier.AtLeast(TierSupporter) || caller.IsAdmin)
	case LevelAdmin:
		return caller.Authenticated && caller.IsAdmin
	default:
		return false
	}
}
