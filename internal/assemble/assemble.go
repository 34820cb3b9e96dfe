// Package assemble populates the tags of a document section.
//
// Values come from two sources applied in order: the section's derivation
// rule, which computes values from trusted context, then the configuration
// tree, which may replace the values of overridable tags. Configuration
// anomalies never fail assembly; they are logged as warnings so that tags
// files written for another revision of the format keep working.
package assemble

import (
	"log/slog"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/document"
	"github.com/hupe1980/spdxtag/internal/logging"
	"github.com/hupe1980/spdxtag/internal/tag"
)

// Section derives and then overrides the tags of sec. tree may be nil. It
// returns false only when the section's policy requires a configuration
// sub-tree and none is present under format.
func Section(
	reg *tag.Registry,
	sec document.Section,
	env document.Env,
	tree *config.Tree,
	format string,
	logger *slog.Logger,
) bool {
	logger = logging.OrDefault(logger).With(slog.String("section", sec.Name))

	if sec.Derive != nil {
		sec.Derive(reg, env)
	}

	sub, ok := tree.Sub(format, sec.Name)
	if !ok {
		if sec.Policy.ConfigRequired {
			logger.Error("configuration section is missing",
				slog.String("path", format+"."+sec.Name))

			return false
		}

		logger.Debug("no configuration for section")

		return true
	}

	Override(reg, sec.Name, sub, logger)

	return true
}

// Override applies the keys of sub to the tags of section. Keys are
// processed in sorted order.
func Override(reg *tag.Registry, section string, sub *config.Tree, logger *slog.Logger) {
	logger = logging.OrDefault(logger)

	for _, key := range sub.Keys() {
		entry, _ := sub.Entry(key)

		t, err := reg.Get(key)
		if err != nil || t.Section != section {
			logger.Warn("unknown tag, skipped", slog.String("tag", key))
			continue
		}

		if !entry.IsLeaf() {
			logger.Warn("tag expects a value, found a table; skipped", slog.String("tag", key))
			continue
		}

		if !t.Overridable {
			logger.Warn("tag cannot be overridden, configuration ignored",
				slog.String("tag", key),
				slog.Any("kept", t.Values()),
			)

			continue
		}

		switch v := *entry.Value; v.Kind() {
		case config.KindList:
			t.Set(v.Values()...)
		default:
			t.Set(v.Scalar())
		}

		logger.Debug("tag overridden from configuration",
			slog.String("tag", key),
			slog.Int("values", len(t.Values())),
		)
	}
}
