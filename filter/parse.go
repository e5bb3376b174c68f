package filter

import (
	"strings"

	"github.com/joshproject/josh/rewriter"
	"github.com/joshproject/josh/workspace"
)

// Parse compiles a filter-spec string into a Filter. A spec starting with
// ':' (or '!') is a chain of colon-prefixed tokens (":/a:hide=b:glob=*.go");
// anything else is treated as workspace-file syntax ("PREFIX = SPEC" lines)
// describing a Combine over an implicit Empty base, the same grammar a
// workspace.josh file uses.
func Parse(spec string) (rewriter.Filter, error) {
	if spec == "" {
		return Parse(":nop")
	}
	if strings.HasPrefix(spec, ":") || strings.HasPrefix(spec, "!") {
		return parseChain(spec)
	}
	return buildCombineFilter(spec, Empty{})
}

func parseChain(spec string) (rewriter.Filter, error) {
	tokens := strings.Split(spec[1:], ":")
	var chain rewriter.Filter
	for _, tok := range tokens {
		f, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		if chain == nil {
			chain = f
		} else {
			chain = Chain{First: chain, Second: f}
		}
	}
	if chain == nil {
		chain = Nop{}
	}
	return chain, nil
}

func parseToken(tok string) (rewriter.Filter, error) {
	switch {
	case tok == "nop":
		return Nop{}, nil
	case tok == "empty":
		return Empty{}, nil
	case tok == "DIRS":
		return NewDirs(), nil
	case tok == "FOLD":
		return Fold{}, nil
	case strings.HasPrefix(tok, "/"):
		return Subdir{Path: tok[1:]}, nil
	case strings.HasPrefix(tok, "+"):
		return Prefix{Path: tok[1:]}, nil
	case strings.HasPrefix(tok, "prefix="):
		return Prefix{Path: strings.TrimPrefix(tok, "prefix=")}, nil
	case strings.HasPrefix(tok, "hide="):
		return Hide{Path: strings.TrimPrefix(tok, "hide=")}, nil
	case strings.HasPrefix(tok, "~glob="):
		return NewGlob(strings.TrimPrefix(tok, "~glob="), true), nil
	case strings.HasPrefix(tok, "glob="):
		return NewGlob(strings.TrimPrefix(tok, "glob="), false), nil
	case strings.HasPrefix(tok, "workspace="):
		return Workspace{WsPath: strings.TrimPrefix(tok, "workspace=")}, nil
	case strings.HasPrefix(tok, "CUTOFF="):
		return Cutoff{Name: strings.TrimPrefix(tok, "CUTOFF=")}, nil
	case strings.HasPrefix(tok, "INFO="):
		return InfoFile{Values: kvArgs(strings.TrimPrefix(tok, "INFO="))}, nil
	default:
		return nil, &ParseError{Spec: tok, Reason: "unrecognized filter token"}
	}
}

func kvArgs(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			out["prefix"] = k
			continue
		}
		out[k] = v
	}
	return out
}

// buildCombineFilter parses workspace-file syntax into a Combine whose base
// is the supplied filter (Empty for a top-level combine spec, Subdir(path)
// when resolving an actual workspace.josh).
func buildCombineFilter(content string, base rewriter.Filter) (*Combine, error) {
	c := &Combine{Base: base}
	for _, e := range workspace.Parse(content) {
		spec := e.Spec
		if spec == "" {
			spec = ":/" + e.Prefix
		}
		f, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		c.Mounts = append(c.Mounts, Mount{Prefix: e.Prefix, Other: f})
	}
	return c, nil
}
