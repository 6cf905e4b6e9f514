package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jmartin/resume-dash/internal/api"
	"github.com/jmartin/resume-dash/internal/outreach"
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Recruiter outreach threads and message generation",
}

var outreachThreadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List outreach threads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		threads, err := cli.client.ListThreads(cmd.Context())
		if err != nil {
			return err
		}
		if len(threads) == 0 {
			fmt.Println("No outreach threads.")
			return nil
		}
		for _, th := range threads {
			state := "active"
			if !th.IsActive {
				state = "closed"
			}
			fmt.Printf("%s  %-20s %-15s %-8s %d message(s)\n",
				th.ID, th.Company, th.ContactName, state, th.MessageCount)
		}
		return nil
	},
}

var (
	threadContact string
	threadMethod  string
)

var outreachNewThreadCmd = &cobra.Command{
	Use:   "new-thread <company>",
	Short: "Start an outreach thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		th, err := cli.client.CreateThread(cmd.Context(), args[0], threadContact, outreach.ContactMethod(threadMethod))
		if err != nil {
			return err
		}
		fmt.Printf("Created thread %s for %s\n", th.ID, th.Company)
		return nil
	},
}

var outreachLogCmd = &cobra.Command{
	Use:   "log <thread-id> <sent|received> <content>",
	Short: "Record a message in a thread",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		threadID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid thread id %q", args[0])
		}
		direction := outreach.MessageDirection(args[1])
		if !direction.Valid() {
			return fmt.Errorf("direction must be sent or received, got %q", args[1])
		}
		if _, err := cli.client.AddMessage(cmd.Context(), threadID, direction, args[2]); err != nil {
			return err
		}
		fmt.Println("Recorded.")
		return nil
	},
}

var outreachHistoryCmd = &cobra.Command{
	Use:   "history <thread-id>",
	Short: "Show a thread's messages in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		threadID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid thread id %q", args[0])
		}
		messages, err := cli.client.ListMessages(cmd.Context(), threadID)
		if err != nil {
			return err
		}
		for _, m := range messages {
			arrow := "->"
			if m.Direction == outreach.DirectionReceived {
				arrow = "<-"
			}
			fmt.Printf("%s %s\n", arrow, m.Content)
		}
		return nil
	},
}

var (
	genOutreachContact  string
	genOutreachStyle    string
	genOutreachLength   string
	genOutreachTemplate string
	genOutreachJD       string
)

var outreachGenerateCmd = &cobra.Command{
	Use:   "generate <company>",
	Short: "Draft a first outreach message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		req := api.GenerateOutreachRequest{
			Company:     args[0],
			ContactName: genOutreachContact,
			Style:       outreach.WritingStyle(genOutreachStyle),
			Length:      outreach.MessageLength(genOutreachLength),
			JDText:      genOutreachJD,
		}
		if genOutreachTemplate != "" {
			id, err := uuid.Parse(genOutreachTemplate)
			if err != nil {
				return fmt.Errorf("invalid template id %q", genOutreachTemplate)
			}
			req.TemplateID = &id
		}
		message, err := cli.client.GenerateOutreach(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var replyInstructions string

var outreachReplyCmd = &cobra.Command{
	Use:   "reply <thread-id>",
	Short: "Draft a reply using the thread history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		threadID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid thread id %q", args[0])
		}
		message, err := cli.client.GenerateReply(cmd.Context(), threadID, replyInstructions)
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

func init() {
	outreachNewThreadCmd.Flags().StringVar(&threadContact, "contact", "", "Contact name")
	outreachNewThreadCmd.Flags().StringVar(&threadMethod, "method", "", "Contact method (linkedin, email, other)")

	outreachGenerateCmd.Flags().StringVar(&genOutreachContact, "contact", "", "Contact name to address")
	outreachGenerateCmd.Flags().StringVar(&genOutreachStyle, "style", "", "Writing style (professional, semi_formal, casual, friend)")
	outreachGenerateCmd.Flags().StringVar(&genOutreachLength, "length", "", "Message length (short, long)")
	outreachGenerateCmd.Flags().StringVar(&genOutreachTemplate, "template", "", "Template id to seed from")
	outreachGenerateCmd.Flags().StringVar(&genOutreachJD, "jd", "", "Job description text to reference")

	outreachReplyCmd.Flags().StringVar(&replyInstructions, "instructions", "", "Guidance for the reply")

	outreachCmd.AddCommand(outreachThreadsCmd, outreachNewThreadCmd, outreachLogCmd, outreachHistoryCmd, outreachGenerateCmd, outreachReplyCmd)
	rootCmd.AddCommand(outreachCmd)
}
