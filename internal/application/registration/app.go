package registration

import (
	"gitlab.com/arcadia-gg/accounts-backend/internal/application/registration/cmd"
)

type App struct {
	CMD Command
}

type Command struct {
	Register    *cmd.RegisterHandler
	VerifyEmail *cmd.VerifyEmailHandler
	ResendCode  *cmd.ResendCodeHandler
}

type Args struct {
	UserRepo cmd.UserRepo
	OTPRepo  cmd.OTPRepo
	TxRunner cmd.TxRunner
}

func NewApp(args Args) *App {
	return &App{
		CMD: Command{
			Register: cmd.NewRegisterHandler(cmd.RegisterHandlerArgs{
				UserRepo: args.UserRepo,
				OTPRepo:  args.OTPRepo,
				TxRunner: args.TxRunner,
			}),
			VerifyEmail: cmd.NewVerifyEmailHandler(cmd.VerifyEmailHandlerArgs{
				UserRepo: args.UserRepo,
				OTPRepo:  args.OTPRepo,
				TxRunner: args.TxRunner,
			}),
			ResendCode: cmd.NewResendCodeHandler(cmd.ResendCodeHandlerArgs{
				UserRepo: args.UserRepo,
				OTPRepo:  args.OTPRepo,
				TxRunner: args.TxRunner,
			}),
		},
	}
}
