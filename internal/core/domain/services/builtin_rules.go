package services

import (
	"fmt"
	"strings"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

func builtinRules() []TransitionRule {
	return []TransitionRule{
		{
			Status:         workorder.Pending,
			Label:          "Pendiente",
			OptionalFields: []string{NoteField},
		},
		{
			Status:         workorder.InProgress,
			Label:          "En Reparación",
			OptionalFields: []string{NoteField},
		},
		{
			Status:         workorder.WaitingParts,
			Label:          "Esperando Piezas",
			RequiredFields: []string{"part_name"},
			OptionalFields: []string{"supplier", "tracking_number", "ordered_at"},
			describe: func(md workorder.Metadata, _ kernel.Actor) string {
				return fmt.Sprintf("Estado cambiado a Esperando Piezas. Pieza: %s, Suplidor: %s, Tracking: %s.",
					valueOrNA(md, "part_name"),
					valueOrNA(md, "supplier"),
					valueOrNA(md, "tracking_number"),
				)
			},
		},
		{
			Status:         workorder.ExternalRepair,
			Label:          "Reparación Externa",
			RequiredFields: []string{"workshop"},
			OptionalFields: []string{"reason"},
			FieldMapping:   map[string]string{"workshop": "external_workshop"},
			describe: func(md workorder.Metadata, _ kernel.Actor) string {
				return fmt.Sprintf("Enviado a Reparación Externa. Taller: %s. Motivo: %s.",
					valueOrNA(md, "external_workshop"),
					strings.TrimRight(valueOrNA(md, "reason"), "."),
				)
			},
		},
		{
			Status:         workorder.Ready,
			Label:          "Listo para Recoger",
			OptionalFields: []string{NoteField},
		},
		{
			Status:         workorder.Completed,
			Label:          "Completado",
			OptionalFields: []string{NoteField},
		},
		{
			Status:         workorder.Delivered,
			Label:          "Entregado",
			OptionalFields: []string{NoteField},
			Terminal:       true,
		},
		{
			Status:         workorder.Cancelled,
			Label:          "Cancelado",
			RequiredFields: []string{"cancellation_reason"},
			Terminal:       true,
			describe: func(md workorder.Metadata, _ kernel.Actor) string {
				return fmt.Sprintf("Orden cancelada. Motivo: %s.",
					strings.TrimRight(valueOrNA(md, "cancellation_reason"), "."))
			},
		},
	}
}
