package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/armonia-saas/access-service-go/internal/model"
)

// SeedDemoPasses creates the three demonstration passes shown on a fresh
// tenant: a 24-hour single-use pass, a 7-day temporary pass and a 30-day
// recurrent pass.
func (s *AccessPassService) SeedDemoPasses(ctx context.Context) ([]*model.AccessPass, error) {
	now := time.Now()
	admin := "Administrador"

	demos := []GenerateAccessPassParams{
		{
			VisitorName:    "Visitante Temporal",
			DocumentType:   model.DocumentTypeCC,
			DocumentNumber: "1234567890",
			Destination:    "Administración",
			ResidentName:   &admin,
			ValidFrom:      now,
			ValidUntil:     now.Add(24 * time.Hour),
			PassType:       model.PassTypeSingleUse,
			CreatedBy:      1,
			Notes:          strPtr("Pase de un solo uso para demostración"),
		},
		{
			VisitorName:    "Contratista Temporal",
			DocumentType:   model.DocumentTypeCC,
			DocumentNumber: "9876543210",
			Destination:    "Áreas comunes",
			ResidentName:   &admin,
			ValidFrom:      now,
			ValidUntil:     now.AddDate(0, 0, 7),
			PassType:       model.PassTypeTemporary,
			CreatedBy:      1,
			Notes:          strPtr("Pase temporal para trabajos de mantenimiento"),
		},
		{
			VisitorName:    "Personal de Limpieza",
			DocumentType:   model.DocumentTypeCC,
			DocumentNumber: "5555555555",
			Destination:    "Todo el conjunto",
			ResidentName:   &admin,
			ValidFrom:      now,
			ValidUntil:     now.AddDate(0, 0, 30),
			PassType:       model.PassTypeRecurrent,
			CreatedBy:      1,
			Notes:          strPtr("Pase recurrente para personal de servicios"),
		},
	}

	passes := make([]*model.AccessPass, 0, len(demos))
	for _, params := range demos {
		pass, err := s.Generate(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("seed demo pass %q: %w", params.VisitorName, err)
		}
		passes = append(passes, pass)
	}

	log.Info().Int("count", len(passes)).Msg("demo passes seeded")
	return passes, nil
}

// SeedDemoPreRegistrations creates three sample pre-registrations for a
// resident: one arriving today, one tomorrow, and one recurrent.
func (s *PreRegistrationService) SeedDemoPreRegistrations(ctx context.Context, residentID int64, residentName, residentUnit string) ([]*CreatePreRegistrationResult, error) {
	now := time.Now()

	demos := []CreatePreRegistrationInput{
		{
			VisitorName:         "Familiar Ejemplo",
			DocumentType:        model.DocumentTypeCC,
			DocumentNumber:      "1122334455",
			Purpose:             strPtr("Visita familiar"),
			ExpectedArrivalDate: now,
			ValidUntil:          now.AddDate(0, 0, 1),
			ResidentID:          residentID,
			ResidentName:        residentName,
			ResidentUnit:        residentUnit,
			GeneratePass:        true,
			PassType:            model.PassTypeSingleUse,
			Notes:               strPtr("Pre-registro de ejemplo para hoy"),
		},
		{
			VisitorName:         "Técnico Ejemplo",
			DocumentType:        model.DocumentTypeCC,
			DocumentNumber:      "9988776655",
			Purpose:             strPtr("Mantenimiento"),
			ExpectedArrivalDate: now.AddDate(0, 0, 1),
			ValidUntil:          now.AddDate(0, 0, 2),
			ResidentID:          residentID,
			ResidentName:        residentName,
			ResidentUnit:        residentUnit,
			GeneratePass:        true,
			PassType:            model.PassTypeSingleUse,
			Notes:               strPtr("Pre-registro de ejemplo para mañana"),
		},
		{
			VisitorName:         "Empleada Doméstica",
			DocumentType:        model.DocumentTypeCC,
			DocumentNumber:      "5544332211",
			Purpose:             strPtr("Servicio doméstico"),
			ExpectedArrivalDate: now,
			ValidUntil:          now.AddDate(0, 0, 30),
			ResidentID:          residentID,
			ResidentName:        residentName,
			ResidentUnit:        residentUnit,
			GeneratePass:        true,
			PassType:            model.PassTypeRecurrent,
			Notes:               strPtr("Pre-registro recurrente de ejemplo"),
		},
	}

	results := make([]*CreatePreRegistrationResult, 0, len(demos))
	for _, input := range demos {
		result, err := s.Create(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("seed demo pre-registration %q: %w", input.VisitorName, err)
		}
		results = append(results, result)
	}

	log.Info().Int("count", len(results)).Msg("demo pre-registrations seeded")
	return results, nil
}

func strPtr(s string) *string {
	return &s
}
