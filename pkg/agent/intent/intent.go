// Package intent turns a free-text query into a validated list of tool
// intents. Classification is a single LLM call; everything the model sends
// back is treated as untrusted text and run through a defensive parser that
// can never fail outward — malformed output degrades to the no-op intent.
package intent

// Kind is the closed set of tool intent tags the engine recognizes.
type Kind string

const (
	KindNone            Kind = "none"             // KindNone is the explicit no-op intent.
	KindWebSearch       Kind = "web_search"       // KindWebSearch searches the web for a query.
	KindMathCalculator  Kind = "math_calculator"  // KindMathCalculator evaluates a math expression.
	KindFileSearch      Kind = "file_search"      // KindFileSearch finds files matching a pattern.
	KindReadFile        Kind = "read_file"        // KindReadFile reads a file's contents.
	KindCreateFile      Kind = "create_file"      // KindCreateFile writes a new file.
	KindGitStatus       Kind = "git_status"       // KindGitStatus reports the git working tree state.
	KindPwd             Kind = "pwd"              // KindPwd reports the working directory.
	KindTerminalCommand Kind = "terminal_command" // KindTerminalCommand runs a shell command.
	KindGetWeather      Kind = "get_weather"      // KindGetWeather is recognized but not implemented.
	KindGetStockInfo    Kind = "get_stock_info"   // KindGetStockInfo is recognized but not implemented.
	KindNpmInfo         Kind = "npm_info"         // KindNpmInfo is recognized but not implemented.
)

// AllKinds lists every recognized kind. The dispatcher's registry test
// walks this list to pin registry exhaustiveness.
var AllKinds = []Kind{
	KindNone,
	KindWebSearch,
	KindMathCalculator,
	KindFileSearch,
	KindReadFile,
	KindCreateFile,
	KindGitStatus,
	KindPwd,
	KindTerminalCommand,
	KindGetWeather,
	KindGetStockInfo,
	KindNpmInfo,
}

var recognized = func() map[Kind]bool {
	m := make(map[Kind]bool, len(AllKinds))
	for _, k := range AllKinds {
		m[k] = true
	}
	return m
}()

// unimplemented are kinds the classifier may emit but no executor backs.
var unimplemented = map[Kind]bool{
	KindGetWeather:   true,
	KindGetStockInfo: true,
	KindNpmInfo:      true,
}

// ParseKind maps a raw intent tag onto the closed kind set. The second
// return is false for tags outside the set.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(raw)
	return k, recognized[k]
}

// Unimplemented reports whether the kind is recognized but has no executor.
func (k Kind) Unimplemented() bool {
	return unimplemented[k]
}

// ToolIntent is one classified request: a tool tag plus its arguments as
// the model supplied them. The tag is kept as a raw string so unrecognized
// tags survive long enough for the dispatcher to record them as errors.
type ToolIntent struct {
	Intent string                 `json:"intent"`
	Args   map[string]interface{} `json:"args"`
}

// Kind resolves the intent's tag against the closed kind set.
func (ti ToolIntent) Kind() (Kind, bool) {
	return ParseKind(ti.Intent)
}

// NoneFallback is the fixed result returned whenever classification cannot
// produce a usable intent list.
func NoneFallback() []ToolIntent {
	return []ToolIntent{{Intent: string(KindNone), Args: map[string]interface{}{}}}
}

// Descriptor describes one tool for the classifier prompt's catalog.
type Descriptor struct {
	// Name is the tool's intent tag.
	Name string

	// Description says what the tool does, phrased for the model.
	Description string

	// Args maps each argument name to a short description. Required
	// arguments are listed in Required.
	Args map[string]string

	// Required names the arguments that must be present.
	Required []string
}
