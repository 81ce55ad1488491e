package dev

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/config"
	"github.com/MilkshakeCollective/StachioGo/pkg/database"
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/errors"
	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// CreateEvalCommand crea el comando /dev eval
func CreateEvalCommand() *discord.Command {
	return discord.NewCommand(
		"eval",
		"Evalúa código Go y muestra estructuras internas (Peligroso)",
		"dev",
		evalHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "codigo",
			Description: "Código o expresión Go a evaluar",
			Required:    true,
		},
	).AsDev()
}

func evalHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		start := time.Now()

		if !config.Get().IsDev(ctx.User().ID) {
			ctx.ReplyEphemeral("❌ **Acceso Denegado:** Este comando es solo para desarrolladores.")
			return
		}

		// Deferimos la respuesta porque compilar el script puede tomar unos milisegundos
		ctx.Defer()

		// Limpieza del código de entrada
		code := ctx.GetStringOption("codigo")
		code = strings.TrimPrefix(code, "```go")
		code = strings.TrimPrefix(code, "```")
		code = strings.TrimSuffix(code, "```")
		code = strings.TrimSpace(code)

		// Inicializar el intérprete Yaegi
		i := interp.New(interp.Options{})

		if err := i.Use(stdlib.Symbols); err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error cargando stdlib: %v", err))
			return
		}

		// Inyección de variables del bot usando Exports para que el script
		// pueda usar 'Ctx', 'Bot', 'DB' directamente
		botExports := map[string]reflect.Value{
			"Ctx":     reflect.ValueOf(ctx),
			"Bot":     reflect.ValueOf(ctx.Client),
			"Session": reflect.ValueOf(ctx.Session),
			"DB":      reflect.ValueOf(database.Get()),
			"Config":  reflect.ValueOf(config.Get()),
		}

		if err := i.Use(interp.Exports{
			"github.com/MilkshakeCollective/StachioGo/internal/commands/dev/dev": botExports,
		}); err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error registrando variables: %v", err))
			return
		}

		_, err := i.Eval(`import . "github.com/MilkshakeCollective/StachioGo/internal/commands/dev"`)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error importando variables: %v", err))
			return
		}

		// Ejecutar el código del usuario
		res, err := i.Eval(code)

		var output string
		if err != nil {
			output = fmt.Sprintf("❌ **Error de Ejecución:**\n```go\n%v\n```", err)
		} else {
			var resStr string
			if res.IsValid() {
				// %#v muestra la estructura interna completa
				resStr = fmt.Sprintf("%#v", res.Interface())
			} else {
				resStr = "nil"
			}
			if len(resStr) > 1900 {
				resStr = resStr[:1900] + "... (truncado)"
			}

			output = fmt.Sprintf("✅ **Resultado:**\n```go\n%s\n```", resStr)
		}

		elapsed := time.Since(start)
		logger.Debug(fmt.Sprintf("Eval completado en %s. Limpiando contexto Yaegi...", elapsed), "DevEval")

		ctx.EditReply(output)
	}()
	return nil
}
