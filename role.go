package replicas

/*
Role is the backend class an operation must be served by.

	  Decision per call on a non-primary connection:

	   Role      override   target
	---------- ---------- ----------------
	| Primary | any      | pool primary   |
	| Replica | active   | pool primary   |
	| Replica | inactive | own handle     |

A connection that already wraps the primary handle always executes on it.
*/
type Role uint32

const (
	UnknownRole Role = iota // The operation has no declared role.
	PrimaryRole             // The operation must run on the writable primary.
	ReplicaRole             // The operation may run on the current replica.
)

func (r Role) String() string {
	switch r {
	case PrimaryRole:
		return "primary"
	case ReplicaRole:
		return "replica"
	default:
		return "unknown"
	}
}
