package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"docchat-client/internal/bootstrap"
	"docchat-client/internal/config"
	"docchat-client/internal/entity"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/service"
	"docchat-client/pkg/citation"

	"github.com/fatih/color"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

const help = `Commands:
  /sessions            list sessions (newest first)
  /select <n|id>       switch to a session
  /new                 start a new chat
  /docs                list documents
  /upload <path>       upload a PDF
  /filter <query>      restrict the next question to one document
  /source <n>          show source n of the last answer
  /help                this text
  /quit                exit
Anything else is sent as a question.`

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	container := bootstrap.NewContainer(ctx, cfg, sysLogger)
	defer container.Close()

	if _, err := container.DocumentService.Refresh(ctx); err != nil {
		color.Red("Backend unreachable at %s: %v", cfg.Backend.BaseURL, err)
	}
	container.SessionService.List(ctx)
	if err := container.MessageService.Rehydrate(ctx); err != nil {
		color.Yellow("Could not reload the last session: %v", err)
	}

	color.Cyan("docchat - %d documents, %d sessions. Type /help.", len(container.DocumentService.Documents()), len(container.SessionService.Sessions()))
	printTimeline(container)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Print(prompt(container))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}
		run(ctx, container, line)
	}
}

func prompt(c *bootstrap.Container) string {
	if locked := c.FilterService.View().Locked; locked != nil {
		return yellow("@"+locked.DisplayName()) + " > "
	}
	return "> "
}

func run(ctx context.Context, c *bootstrap.Container, line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help":
		fmt.Println(help)

	case "/sessions":
		for i, s := range c.SessionService.List(ctx) {
			marker := " "
			if s.Id == c.StateService.View().CurrentSessionId {
				marker = "*"
			}
			fmt.Printf("%s %2d. %s %s\n", marker, i+1, s.DisplayTitle(), faint(s.CreatedAt.Format("2006-01-02 15:04")))
		}

	case "/select":
		id := arg
		if n, err := strconv.Atoi(arg); err == nil {
			sessions := c.SessionService.Sessions()
			if n < 1 || n > len(sessions) {
				color.Red("No session %d", n)
				return
			}
			id = sessions[n-1].Id
		}
		if err := c.SessionService.Select(ctx, id); err != nil {
			color.Red("Select failed: %v", err)
			return
		}
		printTimeline(c)

	case "/new":
		_ = c.SessionService.Select(ctx, "")
		color.Cyan("New chat")

	case "/docs":
		docs, err := c.DocumentService.Refresh(ctx)
		if err != nil {
			color.Yellow("Showing cached list: %v", err)
		}
		for i, d := range docs {
			fmt.Printf("%2d. %s %s\n", i+1, d.DisplayName(), faint(d.Id))
		}

	case "/upload":
		upload(ctx, c, arg)

	case "/filter":
		c.FilterService.Input("@" + arg)
		view := c.FilterService.Confirm()
		if view.Locked == nil {
			c.FilterService.Cancel()
			color.Yellow("No document matches %q", arg)
			return
		}
		color.Yellow("Next question is limited to %s", view.Locked.DisplayName())

	case "/source":
		showSource(c, arg)

	default:
		if strings.HasPrefix(cmd, "/") {
			color.Red("Unknown command %s", cmd)
			return
		}
		ask(ctx, c, line)
	}
}

func ask(ctx context.Context, c *bootstrap.Container, question string) {
	fmt.Println(faint("..."))
	res, err := c.MessageService.Send(ctx, question, service.SendOptions{})
	if err != nil {
		color.Red("%v", err)
		return
	}
	printMessage(c, res.Reply)
	if res.Sources > 0 {
		fmt.Println(faint(fmt.Sprintf("%d sources, /source <n> to inspect", res.Sources)))
	}
}

func upload(ctx context.Context, c *bootstrap.Container, path string) {
	f, err := os.Open(path)
	if err != nil {
		color.Red("%v", err)
		return
	}
	defer f.Close()

	doc := c.DocumentService.Upload(ctx, path, f)
	if doc == nil {
		if e := c.StateService.View().Error; e != nil {
			color.Red("Upload failed: %s", e.Message)
		}
		return
	}
	color.Green("Uploaded %s (%s)", doc.DisplayName(), doc.Id)
}

func showSource(c *bootstrap.Container, arg string) {
	n, err := strconv.Atoi(arg)
	sources := c.SourceService.Sources()
	if err != nil || n < 1 || n > len(sources) {
		color.Red("Choose a source between 1 and %d", len(sources))
		return
	}
	chunk := sources[n-1].Chunk
	c.SourceService.SetActive(chunk, "")

	page := ""
	if chunk.PageNumber != nil {
		page = fmt.Sprintf(", page %d", *chunk.PageNumber)
	}
	fmt.Printf("%s %s%s %s\n", cyan(fmt.Sprintf("[%d]", n)), chunk.DocumentName, page, faint(fmt.Sprintf("%.2f", chunk.Similarity)))
	if chunk.MediaType == entity.MediaImage && chunk.ImageUrl != "" {
		fmt.Println(faint(chunk.ImageUrl))
	}
	fmt.Println(chunk.Content)
}

func printTimeline(c *bootstrap.Container) {
	for _, m := range c.MessageService.Timeline() {
		printMessage(c, m)
	}
}

func printMessage(c *bootstrap.Container, m entity.ChatMessage) {
	if m.Role == entity.RoleUser {
		fmt.Println(yellow("you: ") + m.Content)
		return
	}
	segments, err := c.MessageService.Segments(m.Id)
	if err != nil {
		segments = citation.Resolve(m.Content, nil)
	}
	var b strings.Builder
	for _, s := range segments {
		switch s.Kind {
		case citation.SegmentCitation:
			b.WriteString(cyan(fmt.Sprintf("[%d]", s.Number)))
		case citation.SegmentUnresolved:
			b.WriteString(red("[?]"))
		default:
			b.WriteString(s.Text)
		}
	}
	fmt.Println(b.String())
}
