package libc

// LddMethod names the recipe used to list shared-library dependencies.
type LddMethod string

const (
	// LddMethodGlibc self-invokes the glibc loader with --list.
	LddMethodGlibc LddMethod = "glibc-ld--list"
	// LddMethodMusl runs the musl loader with argv[0] set to "ldd".
	LddMethodMusl LddMethod = "musl-ld-argv0-ldd"
	// LddMethodNone means dependency listing is unsupported on this host.
	LddMethodNone LddMethod = "none"
)

// TargetPlaceholder marks the CmdTemplate token to substitute with the
// target binary path.
const TargetPlaceholder = "{target}"

// LddEquivalent is a reusable command recipe for listing the shared-library
// dependencies of an arbitrary binary, appropriate to the detected libc.
type LddEquivalent struct {
	Method      LddMethod `json:"method"`
	CmdTemplate []string  `json:"cmd_template,omitempty"`
	Executable  string    `json:"executable,omitempty"`
}

// DeriveLdd maps a libc family and selected linker onto an LddEquivalent.
// Pure function: identical inputs always yield identical output, and an
// unknown family or missing linker always yields LddMethodNone.
func DeriveLdd(family Family, linker string) LddEquivalent {
	if linker == "" {
		return LddEquivalent{Method: LddMethodNone}
	}

	switch family {
	case FamilyGlibc:
		return LddEquivalent{
			Method:      LddMethodGlibc,
			CmdTemplate: []string{linker, "--list", TargetPlaceholder},
		}
	case FamilyMusl:
		return LddEquivalent{
			Method:      LddMethodMusl,
			CmdTemplate: []string{"ldd", TargetPlaceholder},
			Executable:  linker,
		}
	default:
		return LddEquivalent{Method: LddMethodNone}
	}
}

// Command substitutes target into the recipe, returning the concrete argv
// and the executable override to run it with. ok is false when the method is
// LddMethodNone; callers must treat that as "unsupported on this host", not
// retry.
func (l LddEquivalent) Command(target string) (argv []string, executable string, ok bool) {
	if l.Method == LddMethodNone || len(l.CmdTemplate) == 0 {
		return nil, "", false
	}

	argv = make([]string, len(l.CmdTemplate))
	for i, token := range l.CmdTemplate {
		if token == TargetPlaceholder {
			argv[i] = target
		} else {
			argv[i] = token
		}
	}
	return argv, l.Executable, true
}
