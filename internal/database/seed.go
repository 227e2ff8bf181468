// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/hablafeed/internal/adaptive"
	"github.com/tomtom215/hablafeed/internal/logging"
)

// DemoUserID is the learner created by SeedDemoData.
const DemoUserID = "demo-learner"

// demoNamespace derives stable content ids so reseeding replaces rather
// than duplicates the demo catalog.
var demoNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tomtom215/hablafeed/demo"))

type demoClip struct {
	title    string
	path     string
	order    int
	tier     int
	dopamine float64
	words    string
}

var demoClips = []demoClip{
	{"Hola y adiós", "saludos", 1, 0, 0.8, "hola adiós buenos días"},
	{"¿Cómo estás?", "saludos", 2, 0, 0.7, "cómo estás bien gracias"},
	{"Me llamo Ana", "saludos", 3, 1, 0.6, "me llamo soy de mucho gusto"},
	{"En el mercado", "comida", 1, 1, 0.9, "quiero manzanas cuánto cuesta"},
	{"Pedir un café", "comida", 2, 2, 0.8, "un café con leche por favor la cuenta"},
	{"La receta de mi abuela", "comida", 3, 3, 0.7, "primero cortamos la cebolla después freímos"},
	{"Perdido en Madrid", "viajes", 1, 2, 0.95, "dónde está la estación a la derecha"},
	{"El tren nocturno", "viajes", 2, 3, 0.85, "el billete sale a medianoche andén"},
	{"Una noche en Oaxaca", "viajes", 3, 4, 0.75, "llegamos tarde pero la fiesta seguía"},
	{"Debate sobre el clima", "", 0, 5, 0.5, "sin embargo cabe destacar que el calentamiento"},
	{"Poesía de Lorca", "", 0, 6, 0.4, "verde que te quiero verde viento ramas"},
}

// SeedDemoData loads a small Spanish catalog and one demo learner.
func (db *DB) SeedDemoData(ctx context.Context) error {
	items := make([]adaptive.ContentItem, 0, len(demoClips))
	for i, c := range demoClips {
		tier, dopamine := c.tier, c.dopamine
		item := adaptive.ContentItem{
			ID:             uuid.NewSHA1(demoNamespace, []byte(c.title)).String(),
			Type:           "video",
			Title:          c.title,
			ContentURL:     fmt.Sprintf("https://cdn.hablafeed.example/demo/%02d.mp4", i+1),
			Words:          strings.Fields(c.words),
			DifficultyTier: &tier,
			DopamineScore:  &dopamine,
			Language:       "es",
		}
		if c.path != "" {
			path, order := c.path, c.order
			item.LearningPathID = &path
			item.SequenceOrder = &order
		}
		items = append(items, item)
	}
	if err := db.InsertContent(ctx, items); err != nil {
		return err
	}

	if err := db.UpsertUser(ctx, &adaptive.User{ID: DemoUserID, CurrentLevel: "A2", TargetLanguage: "es"}); err != nil {
		return err
	}

	due := time.Now().UTC().Add(-time.Hour)
	known := []adaptive.WordKnowledge{
		{Word: "hola", ConfidenceScore: 0.95},
		{Word: "adiós", ConfidenceScore: 0.9},
		{Word: "gracias", ConfidenceScore: 0.9},
		{Word: "bien", ConfidenceScore: 0.85},
		{Word: "quiero", ConfidenceScore: 0.7},
		{Word: "café", ConfidenceScore: 0.65},
		{Word: "cuánto", ConfidenceScore: 0.4, NextReviewAt: &due},
	}
	if err := db.UpsertWordKnowledge(ctx, DemoUserID, known); err != nil {
		return err
	}

	logging.Info().Int("content_items", len(items)).Str("user_id", DemoUserID).Msg("Seeded demo catalog")
	return nil
}
