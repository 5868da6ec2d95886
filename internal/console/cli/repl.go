package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Authed() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	GeneratePassword(ctx context.Context) error
	Devices(ctx context.Context) error
	AssignDevice(ctx context.Context, mac, userID string) error
	RemoveDevice(ctx context.Context, mac string) error
	Telemetry(ctx context.Context, mac, from, to string) error
	Settings(ctx context.Context, mac string) error
	EditSettings(ctx context.Context, mac string) error
	Users(ctx context.Context) error
	AddUser(ctx context.Context) error
	RenameUser(ctx context.Context, id, name string) error
	ResetUserPassword(ctx context.Context, id string) error
	SetUserRole(ctx context.Context, id, role string) error
	DeleteUser(ctx context.Context, id string) error
	NextPage()
	PrevPage()
	GotoPage(n int)
}

// runREPL starts a simple read–eval–print loop for the greenhouse console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not signed in:
//	  - help               — show available commands
//	  - login              — authenticate
//	  - exit | quit        — leave the program
//
//	Signed in:
//	  - help               — show available commands
//	  - devices            — list greenhouse devices
//	  - telemetry <mac> [from] [to] — recent samples, optional YYYY-MM-DD bounds
//	  - settings <mac>     — show device settings
//	  - settings <mac> edit — edit device settings
//	  - users [add]        — manage users (admins)
//	  - assign <mac> <id>  — assign a device to a user (admins)
//	  - rmdev <mac>        — remove a device (admins)
//	  - rename <id> <name> — rename a user (admins)
//	  - resetpw <id>       — issue a user a new temporary password (admins)
//	  - role <id> <role>   — change a user's role (admins)
//	  - rmuser <id>        — delete a user (admins)
//	  - passwd             — change your password
//	  - genpass            — print a generated strong password
//	  - whoami             — show the signed-in user
//	  - next | prev | page N — move within the current list
//	  - logout             — sign out
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gh> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.Authed() {
				printlnFn("Available commands: devices, telemetry <mac> [from] [to], settings <mac> [edit], users [add], assign <mac> <id>, rmdev <mac>, rename <id> <name>, resetpw <id>, role <id> <role>, rmuser <id>, passwd, genpass, whoami, next, prev, page N, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "genpass":
			_ = a.GeneratePassword(ctx)

		case "d", "devices":
			_ = a.Devices(ctx)

		case "telemetry":
			if len(args) < 1 {
				printlnFn("Usage: telemetry <mac> [from] [to]")
				continue
			}
			from, to := "", ""
			if len(args) > 1 {
				from = args[1]
			}
			if len(args) > 2 {
				to = args[2]
			}
			_ = a.Telemetry(ctx, args[0], from, to)

		case "settings":
			if len(args) < 1 {
				printlnFn("Usage: settings <mac> [edit]")
				continue
			}
			if len(args) > 1 && args[1] == "edit" {
				_ = a.EditSettings(ctx, args[0])
			} else {
				_ = a.Settings(ctx, args[0])
			}

		case "u", "users":
			if len(args) > 0 && args[0] == "add" {
				_ = a.AddUser(ctx)
			} else {
				_ = a.Users(ctx)
			}

		case "assign":
			if len(args) < 2 {
				printlnFn("Usage: assign <mac> <userID>")
				continue
			}
			_ = a.AssignDevice(ctx, args[0], args[1])

		case "rmdev":
			if len(args) < 1 {
				printlnFn("Usage: rmdev <mac>")
				continue
			}
			_ = a.RemoveDevice(ctx, args[0])

		case "rename":
			if len(args) < 2 {
				printlnFn("Usage: rename <userID> <newName>")
				continue
			}
			_ = a.RenameUser(ctx, args[0], args[1])

		case "resetpw":
			if len(args) < 1 {
				printlnFn("Usage: resetpw <userID>")
				continue
			}
			_ = a.ResetUserPassword(ctx, args[0])

		case "role":
			if len(args) < 2 {
				printlnFn("Usage: role <userID> <Admin|User>")
				continue
			}
			_ = a.SetUserRole(ctx, args[0], args[1])

		case "rmuser":
			if len(args) < 1 {
				printlnFn("Usage: rmuser <userID>")
				continue
			}
			_ = a.DeleteUser(ctx, args[0])

		case "n", "next":
			a.NextPage()

		case "p", "prev":
			a.PrevPage()

		case "page":
			if len(args) < 1 {
				printlnFn("Usage: page <number>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				printlnFn("Not a page number:", args[0])
				continue
			}
			a.GotoPage(n)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
