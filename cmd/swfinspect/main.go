package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/swf-abc/abc"
	"github.com/wippyai/swf-abc/swf"
)

func main() {
	var (
		swfFile     = flag.String("swf", "", "Path to the SWF file")
		configFile  = flag.String("config", "", "Path to a swfinspect.toml config file")
		find        = flag.String("find", "", "Method name substrings to search for (comma-separated)")
		showStrings = flag.Bool("strings", false, "Print each module's string pool")
		showTags    = flag.Bool("tags", false, "Print the tag list")
		showClasses = flag.Bool("classes", false, "Print classes and their static constants")
		exportFile  = flag.String("export", "", "Write the method index as CBOR to this path")
		lazy        = flag.Bool("lazy", false, "Skip eager module validation")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log decoder events to stderr")
	)
	flag.Parse()

	if *swfFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: swfinspect -swf <file.swf> [-find a,b] [-strings] [-tags] [-classes]")
		fmt.Fprintln(os.Stderr, "       swfinspect -swf <file.swf> -export index.cbor")
		fmt.Fprintln(os.Stderr, "       swfinspect -swf <file.swf> -i  (interactive mode)")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *find != "" {
		cfg.Find.Patterns = splitPatterns(*find)
	}
	if *lazy {
		cfg.Parse.Lazy = true
	}

	log := zap.NewNop()
	if *verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = log.Sync() }()
	}

	opts := options{
		file:     *swfFile,
		config:   cfg,
		strings:  *showStrings,
		tags:     *showTags,
		classes:  *showClasses,
		export:   *exportFile,
		color:    useColor(cfg.Output.Color),
		logger:   log,
		patterns: cfg.Find.Patterns,
	}

	if *interactive {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	file     string
	config   fileConfig
	patterns []string
	strings  bool
	tags     bool
	classes  bool
	export   string
	color    bool
	logger   *zap.Logger
}

func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// load reads and decodes the container named by o.file.
func load(o options) (*swf.File, error) {
	data, err := os.ReadFile(o.file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	parseOpts := o.config.parseOptions()
	if o.logger != nil {
		parseOpts = append(parseOpts, swf.WithLogger(o.logger))
	}
	f, err := swf.Parse(data, parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return f, nil
}

func run(w io.Writer, o options) error {
	f, err := load(o)
	if err != nil {
		return err
	}
	p := printer{w: w, color: o.color}

	h := f.Header
	p.line("%s %s", p.paint(titleStyle, "SWF"), o.file)
	p.line("Signature: %s (%s), version %d", h.Signature, h.Compression(), h.Version)
	p.line("Stage: %gx%g px at %g fps, %d frames", h.FrameSize.Width(), h.FrameSize.Height(), h.FrameRateFloat(), h.FrameCount)
	p.line("Length: declared %d, actual %d", h.FileLength, f.BodyLength)
	p.line("Tags: %d, bytecode modules: %d", len(f.Tags), len(f.Modules()))

	if o.tags {
		p.section("Tags")
		for i, tag := range f.Tags {
			p.line("  [%d] %s len=%d @%d", i, p.paint(funcStyle, tag.Code.String()), tag.Length, tag.Offset)
		}
	}

	for _, pattern := range o.patterns {
		p.section(fmt.Sprintf("Methods matching %q", pattern))
		for _, m := range f.FindMethods(pattern) {
			p.method(m)
		}
	}

	if o.classes {
		p.section("Class constants")
		for _, c := range collectConstants(f) {
			p.line("  %s %s", p.paint(funcStyle, c.Class), p.paint(helpStyle, "("+c.Module+")"))
			for _, k := range sortedKeys(c.Values) {
				p.line("    %s = %s", k, p.paint(resultStyle, c.Values[k]))
			}
		}
	}

	if o.strings {
		for i, mt := range f.Modules() {
			if mt.ABC == nil {
				continue
			}
			p.section(fmt.Sprintf("Strings of module %d %q", i, mt.Name))
			for j, s := range mt.ABC.ConstantPool.Strings.All() {
				p.line("  %5d %q", j, s)
			}
		}
	}

	if err := f.Err(); err != nil {
		p.section("Problems")
		for _, e := range multierr.Errors(err) {
			p.line("  %s", p.paint(errorStyle, e.Error()))
		}
	}

	if o.export != "" {
		idx := buildIndex(o.file, f, o.patterns)
		if err := writeIndex(o.export, idx); err != nil {
			return err
		}
		p.line("\nWrote %d methods to %s", len(idx.Methods), o.export)
	}
	return p.err
}

// collectConstants gathers the static constants of every class that has
// any, across all decoded modules.
func collectConstants(f *swf.File) []classEntry {
	var out []classEntry
	for _, mt := range f.Modules() {
		if mt.ABC == nil {
			continue
		}
		for i := range mt.ABC.EachClass() {
			consts, err := mt.ABC.ClassConstants(i)
			if err != nil || len(consts) == 0 {
				continue
			}
			name, err := mt.ABC.ClassName(i)
			if err != nil {
				continue
			}
			e := classEntry{Module: mt.Name, Class: name, Values: make(map[string]string, len(consts))}
			for _, c := range consts {
				e.Values[c.Name] = formatConstant(c)
			}
			out = append(out, e)
		}
	}
	return out
}

func formatConstant(c abc.Constant) string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// printer writes report lines and keeps the first write error.
type printer struct {
	w     io.Writer
	color bool
	err   error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) section(title string) {
	p.line("\n%s", p.paint(sectionStyle, title))
}

func (p *printer) method(m swf.MethodMatch) {
	label := fmt.Sprintf("  [tag %d] %s", m.Tag, p.paint(funcStyle, m.Name))
	if !m.HasParamNames {
		p.line("%s %s", label, p.paint(helpStyle, "(parameter names unavailable)"))
		return
	}
	params := make([]string, len(m.ParamNames))
	for i, n := range m.ParamNames {
		params[i] = p.paint(typeStyle, n)
	}
	p.line("%s(%s)", label, strings.Join(params, ", "))
}
