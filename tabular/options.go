package tabular

import (
	"unicode/utf8"
)

type Option func(opt *options)

// WithExcel 允许读写xlsx
func WithExcel() Option {
	return func(opt *options) {
		opt.formats[ExcelFormat] = struct{}{}
	}
}

// WithMaxRows 最大数据行数，超过会报异常
func WithMaxRows(n int) Option {
	return func(opt *options) {
		if n > 0 {
			opt.maxRows = n
		}
	}
}

// WithDelimiter sets the csv field separator.
func WithDelimiter(r rune) Option {
	return func(opt *options) {
		if r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) {
			opt.delimiter = r
		}
	}
}

type options struct {
	formats   map[string]struct{}
	maxRows   int  //0为不限制
	delimiter rune //csv分隔符
}

func newOptions(opts ...Option) *options {
	o := &options{
		formats:   make(map[string]struct{}, len(Formats)+1),
		maxRows:   0,
		delimiter: ',',
	}
	for _, f := range Formats {
		o.formats[f] = struct{}{}
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}

func (o *options) allowed(format string) bool {
	_, ok := o.formats[format]
	return ok
}

func (o *options) formatList() []string {
	out := append([]string(nil), Formats...)
	if o.allowed(ExcelFormat) {
		out = append(out, ExcelFormat)
	}
	return out
}

// Config binds manager options to flags and config files.
type Config struct {
	Excel     bool   `help:"允许读写xlsx文件" default:"false"`
	MaxRows   int    `help:"最大数据行数,0为不限制" default:"0"`
	Delimiter string `help:"csv分隔符" default:","`
}

func (c Config) Options() []Option {
	var opts []Option
	if c.Excel {
		opts = append(opts, WithExcel())
	}
	if c.MaxRows > 0 {
		opts = append(opts, WithMaxRows(c.MaxRows))
	}
	if r, _ := utf8.DecodeRuneInString(c.Delimiter); r != utf8.RuneError {
		opts = append(opts, WithDelimiter(r))
	}
	return opts
}
