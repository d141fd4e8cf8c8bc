package unit

// Kind identifies an order variant. The set is closed: every kind maps to one
// descriptor tag, and the numeric value is folded into the sync checksum, so
// values must never be reordered.
type Kind int

const (
	KindNone Kind = iota
	KindStill
	KindStandGround
	KindFollow
	KindMove
	KindAttack
	KindAttackGround
	KindDie
	KindSpellCast
	KindTrain
	KindUpgradeTo
	KindResearch
	KindBuilt
	KindBoard
	KindUnload
	KindPatrol
	KindBuild
	KindRepair
	KindResource
	KindTransformInto

	kindCount
)

var kindTags = [kindCount]string{
	KindNone:          "action-none",
	KindStill:         "action-still",
	KindStandGround:   "action-stand-ground",
	KindFollow:        "action-follow",
	KindMove:          "action-move",
	KindAttack:        "action-attack",
	KindAttackGround:  "action-attack-ground",
	KindDie:           "action-die",
	KindSpellCast:     "action-spell-cast",
	KindTrain:         "action-train",
	KindUpgradeTo:     "action-upgrade-to",
	KindResearch:      "action-research",
	KindBuilt:         "action-built",
	KindBoard:         "action-board",
	KindUnload:        "action-unload",
	KindPatrol:        "action-patrol",
	KindBuild:         "action-build",
	KindRepair:        "action-repair",
	KindResource:      "action-resource",
	KindTransformInto: "action-transform-into",
}

// Tag returns the descriptor tag of the kind.
func (k Kind) Tag() string {
	if k < 0 || k >= kindCount {
		return "action-unknown"
	}
	return kindTags[k]
}

func (k Kind) String() string { return k.Tag() }

// Kinds returns every real kind (KindNone excluded) in numeric order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindStill; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Result is what Execute reports back to the dispatch stage.
type Result int

const (
	// ResultContinue: the order wants more cycles.
	ResultContinue Result = iota
	// ResultFinished: the order is done; the dispatch stage promotes the next one.
	ResultFinished
	// ResultDied: the death animation completed inside Execute and the
	// dispatch stage must finalize the death.
	ResultDied
)

func (r Result) String() string {
	switch r {
	case ResultContinue:
		return "continue"
	case ResultFinished:
		return "finished"
	case ResultDied:
		return "died"
	}
	return "unknown"
}
