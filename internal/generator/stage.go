package generator

// Stage is a step of the generation state machine. Generate walks the
// stages in declaration order and stops at the first failing one.
type Stage int

const (
	StageStart Stage = iota
	StageEnsureTarget
	StageAssemble
	StageValidate
	StageSerialize
	StageDone
)

var stageNames = [...]string{
	StageStart:        "start",
	StageEnsureTarget: "ensure-output-target",
	StageAssemble:     "assemble-all-sections",
	StageValidate:     "validate-all-sections",
	StageSerialize:    "serialize-all-sections",
	StageDone:         "done",
}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}

	return stageNames[s]
}
