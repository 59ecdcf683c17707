// Package options contains the program options.
package options

// Supported frontends.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// Frontends lists all supported frontends.
var Frontends = []string{FrontendWindow, FrontendTerminal, FrontendHeadless}

// Default option values.
const (
	DefaultRate   = 500
	DefaultCycles = 2000
	DefaultScale  = 10
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input cartridge file"`
	Output string `flag:"o" usage:"output file for listings and screenshots"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.ch8)"`
	Record string `flag:"record" usage:"record the tone output to a .wav file"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend string `flag:"f" usage:"frontend: window, terminal, headless" default:"window"`
	Disasm   bool   `flag:"disasm" usage:"write a disassembly listing instead of running"`
	Rate     int    `flag:"rate" usage:"cycles per second" default:"500"`
	Cycles   int    `flag:"cycles" usage:"cycles to run in headless mode" default:"2000"`
	Scale    int    `flag:"scale" usage:"pixel scale of window and screenshots" default:"10"`
	Strict   bool   `flag:"strict" usage:"halt on unknown opcodes"`
	Mute     bool   `flag:"mute" usage:"disable audio output"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains listing formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"omit hex opcode bytes in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit offsets in comments"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// New returns program options with all defaults set.
func New() Program {
	return Program{
		Flags: Flags{
			Frontend: FrontendWindow,
			Rate:     DefaultRate,
			Cycles:   DefaultCycles,
			Scale:    DefaultScale,
		},
	}
}
