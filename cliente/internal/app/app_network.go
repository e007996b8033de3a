package app

import (
	"context"
	"time"

	"VoxelMap/shared/inspect"

	"github.com/sirupsen/logrus"
)

// watchServer acompanha os frames preparados pelo servidor headless e guarda o último para o HUD.
// Reconecta até o contexto da aplicação ser cancelado.
func (a *App) watchServer() {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("[PANIC] Erro em watchServer: %v", r)
		}
	}()
	defer a.codec.Close()

	const maxRetries = 10
	for attempt := 1; ; attempt++ {
		if a.ctx.Err() != nil {
			return
		}

		dialCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
		client, err := inspect.Dial(dialCtx, a.Config.InspectURL, a.codec)
		cancel()
		if err != nil {
			if attempt >= maxRetries {
				logrus.Warnf("[Network] Servidor indisponível após %d tentativas: %v", maxRetries, err)
				return
			}
			logrus.Debugf("[Network] Tentativa %d/%d: %v", attempt, maxRetries, err)
			select {
			case <-a.ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
			continue
		}

		logrus.Infof("[Network] Conectado ao servidor em %s", a.Config.InspectURL)
		attempt = 0
		a.readFrames(client)
	}
}

func (a *App) readFrames(client *inspect.Client) {
	// Fecha a conexão quando a aplicação termina, desbloqueando Next.
	stop := context.AfterFunc(a.ctx, func() { client.Close() })
	defer stop()
	defer client.Close()

	for {
		f, err := client.Next()
		if err != nil {
			if a.ctx.Err() == nil {
				logrus.Warnf("[Network] Conexão com o servidor perdida: %v", err)
			}
			return
		}
		a.remote.Store(f)
	}
}
