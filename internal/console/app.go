package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// App es el bucle de menu interactivo sobre un Store inyectado.
type App struct {
	store  *Store
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger
}

func NewApp(store *Store, in io.Reader, out io.Writer, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		store:  store,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// Run muestra el menu hasta que el usuario elige salir, se cierra la
// entrada o se cancela el contexto.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.printMenu()
		choice, err := a.prompt("Choose an option (1-6): ")
		if err != nil {
			return a.endOfInput(err)
		}

		switch choice {
		case "1":
			err = a.addFlow()
		case "2":
			a.viewFlow()
		case "3":
			err = a.idFlow(func(id int) (string, error) {
				if err := a.store.MarkComplete(id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Todo with ID %d marked as complete!", id), nil
			})
		case "4":
			err = a.updateFlow()
		case "5":
			err = a.idFlow(func(id int) (string, error) {
				if err := a.store.Delete(id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Todo with ID %d deleted successfully!", id), nil
			})
		case "6":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid option. Please choose a number between 1 and 6.")
		}
		if err != nil {
			return a.endOfInput(err)
		}
	}
}

func (a *App) printMenu() {
	line := strings.Repeat("=", 40)
	fmt.Fprintf(a.out, "\n%s\nTodo Console App\n%s\n", line, line)
	fmt.Fprintln(a.out, "1. Add Todo")
	fmt.Fprintln(a.out, "2. View Todos")
	fmt.Fprintln(a.out, "3. Mark Todo Complete")
	fmt.Fprintln(a.out, "4. Update Todo")
	fmt.Fprintln(a.out, "5. Delete Todo")
	fmt.Fprintln(a.out, "6. Exit")
	fmt.Fprintln(a.out, line)
}

func (a *App) addFlow() error {
	description, err := a.prompt("Enter todo description: ")
	if err != nil {
		return err
	}
	item, err := a.store.Add(description)
	if err != nil {
		a.report(err)
		return nil
	}
	fmt.Fprintf(a.out, "Todo '%s' added successfully!\n", item.Description)
	return nil
}

func (a *App) viewFlow() {
	items := a.store.List()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No todos available.")
		return
	}
	fmt.Fprintf(a.out, "Found %d todo(s).\n", len(items))
	for _, item := range items {
		fmt.Fprintln(a.out, item.String())
	}
}

func (a *App) updateFlow() error {
	return a.idFlow(func(id int) (string, error) {
		if _, err := a.store.Get(id); err != nil {
			return "", err
		}
		description, err := a.prompt("Enter new description: ")
		if err != nil {
			return "", err
		}
		if err := a.store.UpdateDescription(id, description); err != nil {
			return "", err
		}
		return fmt.Sprintf("Todo with ID %d updated successfully!", id), nil
	})
}

// idFlow pide un id y ejecuta op. Los errores de dominio se muestran al
// usuario; solo los de lectura se propagan.
func (a *App) idFlow(op func(id int) (string, error)) error {
	raw, err := a.prompt("Enter todo ID: ")
	if err != nil {
		return err
	}
	id, convErr := strconv.Atoi(raw)
	if convErr != nil || id < 1 {
		fmt.Fprintln(a.out, "Error: please enter a valid positive number.")
		return nil
	}

	msg, err := op(id)
	if err != nil {
		if isReadError(err) {
			return err
		}
		a.report(err)
		return nil
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) report(err error) {
	switch {
	case errors.Is(err, ErrItemNotFound):
		fmt.Fprintln(a.out, "Error: todo not found.")
	case errors.Is(err, ErrAlreadyCompleted):
		fmt.Fprintln(a.out, "Error: todo was already completed.")
	default:
		fmt.Fprintf(a.out, "Error: %v.\n", err)
	}
}

type readError struct{ err error }

func (e readError) Error() string { return "read input: " + e.err.Error() }
func (e readError) Unwrap() error { return e.err }

func isReadError(err error) bool {
	var re readError
	return errors.As(err, &re)
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", readError{err: err}
	}
	return strings.TrimSpace(line), nil
}

// endOfInput trata EOF como salida normal.
func (a *App) endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		a.logger.Debug("input closed")
		fmt.Fprintln(a.out)
		return nil
	}
	return err
}
