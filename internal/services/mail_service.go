package services

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"gestionale-magazzino/internal/config"
)

// MailService invia via SMTP i documenti generati. L'invio è sincrono e
// bloccante: un fallimento risale al chiamante, nessun retry.
type MailService interface {
	InviaDocumento(to, oggetto, corpo, nomeAllegato string, documento []byte) error
}

type mailService struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewMailService crea una nuova istanza del service
func NewMailService(cfg config.SMTPConfig, logger *zap.Logger) MailService {
	return &mailService{cfg: cfg, logger: logger}
}

// InviaDocumento spedisce il documento PDF come allegato.
func (s *mailService) InviaDocumento(to, oggetto, corpo, nomeAllegato string, documento []byte) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("SMTP non configurato")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", oggetto)
	m.SetBody("text/plain", corpo)
	m.Attach(nomeAllegato, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(documento)
		return err
	}))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		s.logger.Error("Invio email fallito",
			zap.String("to", to),
			zap.Error(err))
		return fmt.Errorf("invio email fallito: %w", err)
	}

	s.logger.Info("Documento inviato via email",
		zap.String("to", to),
		zap.String("allegato", nomeAllegato))
	return nil
}
