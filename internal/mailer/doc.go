// Package mailer hands export summaries to the user's mail setup.
//
// No mail is sent from this process. DryRun prints the message and Mailto
// opens a mailto: link in the user's mail client.
package mailer
