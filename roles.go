package replicas

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// RoleDeclarations is the external form of a role table: two disjoint
// lists of operation names.
type RoleDeclarations struct {
	// Primary lists operations that always run on the primary.
	Primary []string `yaml:"primary"`
	// Replica lists operations that run on the current replica unless the
	// primary override is active.
	Replica []string `yaml:"replica"`
}

// RoleTable maps operation names to their required role. It is read-only
// once built and safe for concurrent use.
type RoleTable struct {
	roles map[string]Role
}

// NewRoleTable builds a table from the primary-only and replica-preferred
// operation lists. A name may appear in at most one list.
func NewRoleTable(primary, replica []string) (*RoleTable, error) {
	t := &RoleTable{roles: make(map[string]Role, len(primary)+len(replica))}
	for _, op := range primary {
		if err := t.declare(op, PrimaryRole); err != nil {
			return nil, err
		}
	}
	for _, op := range replica {
		if err := t.declare(op, ReplicaRole); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustRoleTable is like NewRoleTable but panics on an invalid declaration.
// It is intended for package-level tables.
func MustRoleTable(primary, replica []string) *RoleTable {
	t, err := NewRoleTable(primary, replica)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseRoleTable decodes a YAML document of the form
//
//	primary: [insert, update]
//	replica: [select]
//
// into a RoleTable.
func ParseRoleTable(data []byte) (*RoleTable, error) {
	var decl RoleDeclarations
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("failed to decode role declarations: %w", err)
	}
	return NewRoleTable(decl.Primary, decl.Replica)
}

func (t *RoleTable) declare(op string, role Role) error {
	if op == "" {
		return ErrEmptyOperation
	}
	if prev, ok := t.roles[op]; ok && prev != role {
		return ConflictingRoleError{Operation: op}
	}
	t.roles[op] = role
	return nil
}

// Lookup returns the declared role of op.
func (t *RoleTable) Lookup(op string) (Role, bool) {
	if t == nil {
		return UnknownRole, false
	}
	role, ok := t.roles[op]
	return role, ok
}

// Operations returns every declared operation name in sorted order.
func (t *RoleTable) Operations() []string {
	if t == nil {
		return nil
	}
	ops := make([]string, 0, len(t.roles))
	for op := range t.roles {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Declarations returns the table in its external form.
func (t *RoleTable) Declarations() RoleDeclarations {
	var decl RoleDeclarations
	for _, op := range t.Operations() {
		switch t.roles[op] {
		case PrimaryRole:
			decl.Primary = append(decl.Primary, op)
		case ReplicaRole:
			decl.Replica = append(decl.Replica, op)
		}
	}
	return decl
}
