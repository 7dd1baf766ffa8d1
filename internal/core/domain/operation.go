package domain

// OperationKind tags a single pipeline run and selects which branch of
// bind, validate and save executes.
type OperationKind int

const (
	OperationAdd OperationKind = iota + 1
	OperationEdit
	OperationDelete
)

func (k OperationKind) String() string {
	switch k {
	case OperationAdd:
		return "add"
	case OperationEdit:
		return "edit"
	case OperationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// TargetsExisting reports whether the operation acts on a stored record and
// therefore needs an existence check before commit.
func (k OperationKind) TargetsExisting() bool {
	return k == OperationEdit || k == OperationDelete
}
