package service

// PlanPolicy holds the free-tier ceilings. Enforcement happens before any
// write and only applies to new rows; updates always pass.
type PlanPolicy struct {
	FreeMaxVisions int
	FreeMaxKPIs    int
}

// AllowNewVision reports whether the owner may create another vision.
func (p PlanPolicy) AllowNewVision(tier string, liveVisions int) bool {
	if tier != TierFree {
		return true
	}
	return liveVisions < p.FreeMaxVisions
}

// AllowNewKPIs reports whether the owner may add the given number of
// supporting metrics on top of the existing ones.
func (p PlanPolicy) AllowNewKPIs(tier string, existing, adding int) bool {
	if tier != TierFree {
		return true
	}
	return existing+adding <= p.FreeMaxKPIs
}
