package log

import (
	"io"
	"io/ioutil"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

// file is the rotating log sink, nil unless InitFile was called
var file *lumberjack.Logger

func init() {
	Init(ioutil.Discard, ioutil.Discard, os.Stdout, os.Stderr)
}

func Init(
	traceHandle io.Writer,
	infoHandle io.Writer,
	warningHandle io.Writer,
	errorHandle io.Writer) {

	Trace = log.New(traceHandle,
		"TRACE: ",
		log.Ldate|log.Ltime|log.Lshortfile)

	Info = log.New(infoHandle,
		"INFO: ",
		log.Ldate|log.Ltime|log.Lshortfile)

	Warning = log.New(warningHandle,
		"WARNING: ",
		log.Ldate|log.Ltime|log.Lshortfile)

	Error = log.New(errorHandle,
		"ERROR: ",
		log.Ldate|log.Ltime|log.Lshortfile)
}

// InitLog configures the loggers from the environment.
// SLIDEVIEW_TRACE=1 enables trace and info output on stdout.
func InitLog() {
	InitFile("")
}

// InitFile is InitLog plus a rotating log file. Every level is written to
// the file; the console keeps warnings and errors only unless tracing is on.
func InitFile(path string) {
	var trace, info io.Writer = ioutil.Discard, ioutil.Discard
	var warning, errw io.Writer = os.Stdout, os.Stderr

	if os.Getenv("SLIDEVIEW_TRACE") == "1" {
		trace = os.Stdout
		info = os.Stdout
	}

	if path != "" {
		Close()
		file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			LocalTime:  true,
		}
		trace = multi(trace, file)
		info = multi(info, file)
		warning = io.MultiWriter(warning, file)
		errw = io.MultiWriter(errw, file)
	}

	Init(trace, info, warning, errw)
}

// Close releases the log file, if any.
func Close() {
	if file == nil {
		return
	}
	if err := file.Close(); err != nil {
		Error.Println("failed to close log file:", err)
	}
	file = nil
}

func multi(console io.Writer, f io.Writer) io.Writer {
	if console == ioutil.Discard {
		return f
	}
	return io.MultiWriter(console, f)
}
