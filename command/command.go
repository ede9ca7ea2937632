// Package command builds encode commands for an external encoder.
//
// Stream builders (video, audio, subtitle) each contribute an ordered group of
// arguments. EncodeCommand assembles them between the input and output paths
// and renders the result for a POSIX shell or PowerShell.
//
// Example usage:
//
//	cmd := command.New("ffmpeg", "movie.mkv", "movie_optimized.mkv").
//		Add(video.NewVideoBuilder("libx265").SetCRF(23).SetPreset("medium")).
//		Add(audio.NewAudioBuilder("aac").SetBitrate(128)).
//		Add(command.Faststart())
//
//	fmt.Println(cmd.String())
//	// ffmpeg -i "movie.mkv" -c:v libx265 -crf 23 -preset medium -c:a aac -b:a 128k -movflags +faststart "movie_optimized.mkv"
package command

import "strings"

// DefaultTool is the encoder executable used when none is configured.
const DefaultTool = "ffmpeg"

// TaskType identifies which part of the output an argument group configures.
type TaskType string

const (
	TaskTypeVideo     TaskType = "video"     // Video stream encoding
	TaskTypeAudio     TaskType = "audio"     // Audio stream encoding
	TaskTypeSubtitle  TaskType = "subtitle"  // Subtitle stream handling
	TaskTypeContainer TaskType = "container" // Muxer options
)

// ArgBuilder contributes one group of encoder arguments.
//
// BuildArgs returns the arguments in the order they appear on the command
// line, for example ["-c:v", "libx265", "-crf", "23"].
type ArgBuilder interface {
	BuildArgs() []string
	GetTaskType() TaskType
}

// EncodeCommand is a complete encoder invocation: tool, one input, ordered
// argument groups and one output.
type EncodeCommand struct {
	Tool   string
	Input  string
	Output string
	groups []ArgBuilder
}

// New creates a command for tool reading input and writing output. An empty
// tool uses DefaultTool.
func New(tool, input, output string) *EncodeCommand {
	if tool == "" {
		tool = DefaultTool
	}
	return &EncodeCommand{Tool: tool, Input: input, Output: output}
}

// Add appends argument groups. Nil builders are ignored.
func (c *EncodeCommand) Add(builders ...ArgBuilder) *EncodeCommand {
	for _, b := range builders {
		if b != nil {
			c.groups = append(c.groups, b)
		}
	}
	return c
}

// Groups returns the argument groups in order.
func (c *EncodeCommand) Groups() []ArgBuilder {
	return append([]ArgBuilder(nil), c.groups...)
}

// Group returns the first group of the given type.
func (c *EncodeCommand) Group(t TaskType) (ArgBuilder, bool) {
	for _, g := range c.groups {
		if g.GetTaskType() == t {
			return g, true
		}
	}
	return nil, false
}

// BuildArgs returns the full argument list, excluding the tool itself. The
// slice is suitable for exec.Command(c.Tool, args...).
func (c *EncodeCommand) BuildArgs() []string {
	args := []string{"-i", c.Input}
	for _, g := range c.groups {
		args = append(args, g.BuildArgs()...)
	}
	return append(args, c.Output)
}

// String renders the command for a POSIX shell.
func (c *EncodeCommand) String() string {
	return c.Render(QuoteShell)
}

// Render renders the command with the given quoting style. The input and
// output paths are always quoted; the tool and other arguments only when
// they contain characters the shell would interpret.
func (c *EncodeCommand) Render(style QuoteStyle) string {
	var b strings.Builder
	b.WriteString(style.QuoteIfNeeded(c.Tool))
	b.WriteString(" -i ")
	b.WriteString(style.Quote(c.Input))
	for _, g := range c.groups {
		for _, arg := range g.BuildArgs() {
			b.WriteByte(' ')
			b.WriteString(style.QuoteIfNeeded(arg))
		}
	}
	b.WriteByte(' ')
	b.WriteString(style.Quote(c.Output))
	return b.String()
}

// ArgGroup is a fixed argument group.
type ArgGroup struct {
	Type TaskType
	Args []string
}

func (g ArgGroup) BuildArgs() []string   { return append([]string(nil), g.Args...) }
func (g ArgGroup) GetTaskType() TaskType { return g.Type }

// Faststart moves the MP4/MOV index to the front of the file so playback can
// begin before the download completes. Other muxers ignore the flag.
func Faststart() ArgGroup {
	return ArgGroup{Type: TaskTypeContainer, Args: []string{"-movflags", "+faststart"}}
}
