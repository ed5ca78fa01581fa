package caddy

import "strings"

// Entry represents one reverse-proxy site block produced by the ingress
// stage. This is a pure data type with no I/O.
type Entry struct {
	// Site is the address the entry serves (e.g. "app.example.test").
	Site string `yaml:"site"`

	// Upstream is the backend the proxy forwards to, as a host[:port] token.
	Upstream string `yaml:"upstream"`

	// ServerSNI is the TLS server name presented to the upstream, when the
	// upstream terminates TLS with a name different from the dial address.
	ServerSNI string `yaml:"server_sni,omitempty"`

	// Directives holds extra raw directive lines carried through verbatim,
	// including reverse_proxy lines for secondary upstreams.
	Directives []string `yaml:"directives,omitempty"`
}

// HasUpstream returns true if the entry declares a primary upstream token.
func (e *Entry) HasUpstream() bool {
	return e.Upstream != ""
}

// =============================================================================
// Upstream Token Parsing
// =============================================================================

// SplitUpstream splits an upstream token into host and port.
// The port is the text after the last colon when it is all digits;
// otherwise the whole token is the host (IPv6 literals, dotted names
// without ports).
//
// Examples:
//
//	SplitUpstream("app:8080")   // "app", "8080", nil
//	SplitUpstream("app")        // "app", "", nil
//	SplitUpstream(":8080")      // "", "8080", nil
//	SplitUpstream("[::1]:9000") // "[::1]", "9000", nil
func SplitUpstream(token string) (host, port string, err error) {
	if token == "" {
		return "", "", NewMalformedDirectiveError("", token, "empty upstream token")
	}
	if strings.ContainsAny(token, " \t") {
		return "", "", NewMalformedDirectiveError("", token, "upstream token contains whitespace")
	}

	idx := strings.LastIndex(token, ":")
	if idx == -1 {
		return token, "", nil
	}

	// Only treat the suffix as a port when it is all digits.
	suffix := token[idx+1:]
	isPort := len(suffix) > 0
	for _, c := range suffix {
		if c < '0' || c > '9' {
			isPort = false
			break
		}
	}
	if !isPort {
		return token, "", nil
	}

	return token[:idx], suffix, nil
}

// JoinUpstream rebuilds an upstream token from host and port.
func JoinUpstream(host, port string) string {
	if port == "" {
		return host
	}
	return host + ":" + port
}

// =============================================================================
// Directive Line Rewriting
// =============================================================================

// directiveName is the directive whose upstream arguments are rewritable.
const directiveName = "reverse_proxy"

// IsProxyDirective returns true if the line is a reverse_proxy directive.
func IsProxyDirective(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == directiveName
}

// RewriteDirective applies rw to the host portion of every upstream token of
// a reverse_proxy directive line. Ports, matcher tokens, placeholders, block
// braces and all spacing are left untouched. Lines that are not reverse_proxy
// directives are returned unchanged.
//
// A reverse_proxy directive with no upstream token at all cannot be rewritten
// and returns a MalformedDirectiveError alongside the original line.
func RewriteDirective(line string, rw func(string) string) (string, error) {
	toks := splitTokens(line)
	if len(toks) == 0 || toks[0].text != directiveName {
		return line, nil
	}

	upstreams := 0
	var b strings.Builder
	b.Grow(len(line))
	last := 0
	for _, tok := range toks[1:] {
		if tok.text == "{" {
			// Block open ends the upstream list.
			break
		}
		if !isUpstreamToken(tok.text) {
			continue
		}
		upstreams++

		host, port, err := SplitUpstream(tok.text)
		if err != nil {
			return line, err
		}
		b.WriteString(line[last:tok.start])
		b.WriteString(JoinUpstream(rw(host), port))
		last = tok.end
	}
	if upstreams == 0 {
		return line, NewMalformedDirectiveError("", strings.TrimSpace(line), "no upstream token")
	}
	b.WriteString(line[last:])

	return b.String(), nil
}

// isUpstreamToken reports whether a directive argument is an upstream dial
// address rather than a matcher ("@name", "/path", "*.ext") or a
// placeholder ("{...}").
func isUpstreamToken(tok string) bool {
	switch {
	case strings.HasPrefix(tok, "@"):
		return false
	case strings.HasPrefix(tok, "/"):
		return false
	case strings.HasPrefix(tok, "*"):
		return false
	case strings.HasPrefix(tok, "{"):
		return false
	}
	return true
}

// token is a non-whitespace run within a directive line.
type token struct {
	text  string
	start int
	end   int
}

// splitTokens splits a line into whitespace-separated tokens with their byte
// offsets, so rewritten lines keep the original spacing.
func splitTokens(line string) []token {
	var toks []token
	i := 0
	for i < len(line) {
		if line[i] == ' ' || line[i] == '\t' {
			i++
			continue
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		toks = append(toks, token{text: line[start:i], start: start, end: i})
	}
	return toks
}
