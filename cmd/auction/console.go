package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/cloudx-io/silentauction/controller"
	"github.com/cloudx-io/silentauction/core"
)

// command is one parsed console line.
type command struct {
	Type string
	Args []string
}

var errEmptyCommand = errors.New("empty command")

// parseCommand splits a console line into a command. Argument counts are checked here so the
// dispatcher only sees well-formed commands.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errEmptyCommand
	}
	cmd := command{Type: strings.ToLower(fields[0])}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd.Type {
	case "list", "new", "back", "end", "bids", "help", "quit":
		if len(fields) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", cmd.Type)
		}
	case "select":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("usage: select <id>")
		}
		cmd.Args = fields[1:]
	case "bid":
		if len(fields) < 2 {
			return command{}, fmt.Errorf("usage: bid <amount> <name>")
		}
		// The name is optional here so the validator can report it missing.
		cmd.Args = []string{fields[1], strings.Join(fields[2:], " ")}
	case "add":
		parts := strings.Split(rest, "|")
		if len(parts) != 4 {
			return command{}, fmt.Errorf("usage: add <name>|<description>|<price>|<max bid>")
		}
		cmd.Args = parts
	case "reset":
		switch {
		case len(fields) == 1:
		case len(fields) == 2 && strings.EqualFold(fields[1], "all"):
			cmd.Args = []string{"all"}
		default:
			return command{}, fmt.Errorf("usage: reset [all]")
		}
	default:
		return command{}, fmt.Errorf("unknown command: %s", cmd.Type)
	}
	return cmd, nil
}

// console connects the text commands to a controller and renders its views.
type console struct {
	ctrl    *controller.Controller
	out     io.Writer
	lastKey string
}

func newConsole(ctrl *controller.Controller, out io.Writer) *console {
	return &console{ctrl: ctrl, out: out}
}

// handle runs one console line. It returns quit=true for the quit command. Errors returned
// here come from storage or the archive and end the process; user mistakes are only printed.
func (c *console) handle(ctx context.Context, line string) (quit bool, err error) {
	cmd, err := parseCommand(line)
	if err != nil {
		if !errors.Is(err, errEmptyCommand) {
			fmt.Fprintf(c.out, "%v (type 'help' for commands)\n", err)
		}
		return false, nil
	}

	switch cmd.Type {
	case "help", "bids", "quit":
	default:
		// Actions may repeat the previous message verbatim, so they always redraw.
		c.lastKey = ""
	}

	switch cmd.Type {
	case "quit":
		return true, nil

	case "help":
		c.printHelp()

	case "list":
		// Redrawn by the loop.

	case "bids":
		c.printBids()

	case "select":
		id, parseErr := strconv.ParseInt(cmd.Args[0], 10, 64)
		if parseErr != nil {
			fmt.Fprintf(c.out, "Invalid item id: %s\n", cmd.Args[0])
			return false, nil
		}
		err = c.ctrl.SelectItem(ctx, id)

	case "back":
		err = c.ctrl.GoBack(ctx)

	case "bid":
		_, err = c.ctrl.SubmitBid(ctx, cmd.Args[1], cmd.Args[0])

	case "new":
		err = c.ctrl.NavigateToAddItem(ctx)

	case "add":
		if c.ctrl.Screen().Mode == controller.ModeBrowsing {
			if err = c.ctrl.NavigateToAddItem(ctx); err != nil {
				break
			}
		}
		_, _, err = c.ctrl.AddItem(ctx, cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.Args[3])

	case "end":
		err = c.ctrl.EndAuction(ctx)

	case "reset":
		err = c.ctrl.ResetAuction(ctx, len(cmd.Args) == 1)
	}

	switch {
	case err == nil:
	case errors.Is(err, controller.ErrActionUnavailable):
		fmt.Fprintf(c.out, "'%s' is not available on the %s screen\n", cmd.Type, c.ctrl.Screen().Mode)
		err = nil
	case errors.Is(err, core.ErrItemNotFound):
		fmt.Fprintln(c.out, "Item not found")
		err = nil
	default:
		log.Printf("ERROR: %s failed: %v", cmd.Type, err)
	}
	return false, err
}

func (c *console) printHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  list                               show the current screen")
	fmt.Fprintln(c.out, "  select <id>                        open an item")
	fmt.Fprintln(c.out, "  bid <amount> <name>                bid on the open item")
	fmt.Fprintln(c.out, "  back                               return to the item list")
	fmt.Fprintln(c.out, "  new                                open the add-item form")
	fmt.Fprintln(c.out, "  add <name>|<desc>|<price>|<max>    add an item")
	fmt.Fprintln(c.out, "  bids                               show every bid so far")
	fmt.Fprintln(c.out, "  end                                end the auction now")
	fmt.Fprintln(c.out, "  reset                              clear all bids and restart the timer")
	fmt.Fprintln(c.out, "  reset all                          also restore the default items")
	fmt.Fprintln(c.out, "  quit                               exit")
}

func (c *console) printBids() {
	bids := c.ctrl.Bids()
	if len(bids) == 0 {
		fmt.Fprintln(c.out, "No bids yet")
		return
	}
	currency := c.ctrl.Currency()
	for _, bid := range bids {
		fmt.Fprintf(c.out, "  %s  %s bid %s on %s\n",
			bid.Timestamp.Local().Format("15:04:05"), bid.Bidder, core.FormatMoney(currency, bid.Amount), bid.ItemName)
	}
}

// renderIfChanged prints the active screen when anything shown on it changed. The countdown
// alone triggers a redraw once per minute.
func (c *console) renderIfChanged() {
	key, text := c.view()
	if key == c.lastKey {
		return
	}
	c.lastKey = key
	fmt.Fprint(c.out, text)
}

func (c *console) view() (key, text string) {
	var b strings.Builder
	currency := c.ctrl.Currency()
	minutes, seconds, _ := c.ctrl.Countdown()
	screen := c.ctrl.Screen()

	header := "\n"
	if screen.Mode != controller.ModeResults {
		header = fmt.Sprintf("\n=== Silent Auction ===   Time left: %02d:%02d\n", minutes, seconds)
		key = strconv.Itoa(minutes)
	}

	switch screen.Mode {
	case controller.ModeBrowsing:
		for _, item := range c.ctrl.Items() {
			if item.HasBid() {
				fmt.Fprintf(&b, "  [%d] %s - Current bid: %s (%s)\n", item.ID, item.Name, core.FormatMoney(currency, item.CurrentBid), item.HighestBidder)
			} else {
				fmt.Fprintf(&b, "  [%d] %s - Starting at %s\n", item.ID, item.Name, core.FormatMoney(currency, item.StartingPrice))
			}
		}
		b.WriteString("select <id> to bid, new to add an item, help for more\n")

	case controller.ModeItemDetail:
		item, ok := c.ctrl.SelectedItem()
		if !ok {
			break
		}
		fmt.Fprintf(&b, "%s\n", item.Name)
		if item.Description != "" {
			fmt.Fprintf(&b, "  %s\n", item.Description)
		}
		fmt.Fprintf(&b, "  Starting price: %s\n", core.FormatMoney(currency, item.StartingPrice))
		if item.HasBid() {
			fmt.Fprintf(&b, "  Current bid:    %s by %s\n", core.FormatMoney(currency, item.CurrentBid), item.HighestBidder)
		} else {
			b.WriteString("  Current bid:    none\n")
		}
		fmt.Fprintf(&b, "  Max bid:        %s\n", core.FormatMoney(currency, item.MaxBid))
		b.WriteString("bid <amount> <name> to bid, back to return\n")

	case controller.ModeAddingItem:
		b.WriteString("Add item\n")
		b.WriteString("add <name>|<description>|<price>|<max bid>, back to cancel\n")

	case controller.ModeResults:
		b.WriteString("Auction closed\n")
		if results := c.ctrl.Results(); results != nil {
			for _, line := range results.ItemLines(currency) {
				fmt.Fprintf(&b, "  %s\n", line)
			}
			fmt.Fprintf(&b, "  %d of %d items sold, %d bids\n", len(results.Winners()), len(results.Items), len(results.Bids))
		}
		b.WriteString("reset to start again, reset all to restore the default items, quit to exit\n")
	}

	if message := c.ctrl.Message(); message != "" {
		fmt.Fprintf(&b, ">> %s\n", message)
	}
	return key + "\n" + b.String(), header + b.String()
}
