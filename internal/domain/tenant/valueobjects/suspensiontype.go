package valueobjects

// SuspensionType qualifies a suspended tenant. Soft suspension leaves the
// billing surface reachable so the tenant can pay its way out; hard
// suspension blocks everything outside the billing whitelist.
type SuspensionType string

const (
	SuspensionNone SuspensionType = ""
	SuspensionSoft SuspensionType = "soft"
	SuspensionHard SuspensionType = "hard"
)

func (t SuspensionType) String() string {
	return string(t)
}

func (t SuspensionType) IsValid() bool {
	return t == SuspensionNone || t == SuspensionSoft || t == SuspensionHard
}
