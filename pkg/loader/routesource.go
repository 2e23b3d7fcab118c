package loader

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/specmock/pkg/schema"
)

type routeEntry struct {
	ResponseSchema *schema.Node `yaml:"responseSchema"`
	Status         int          `yaml:"status"`
	ContentType    string       `yaml:"contentType"`
	OperationID    string       `yaml:"operationId"`
	Summary        string       `yaml:"summary"`
}

// loadRouteSource decodes the plain format:
//
//	title: Widgets
//	basePath: /api
//	/widgets/{id}:
//	  get:
//	    responseSchema: {...}
func loadRouteSource(location string, m *yaml.Node) (*Document, error) {
	doc := &Document{Routes: RouteSource{}}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		switch {
		case key.Value == "title":
			doc.Title = val.Value
		case key.Value == "version":
			doc.Version = val.Value
		case key.Value == "basePath":
			doc.BasePath = val.Value
		case strings.HasPrefix(key.Value, "/"):
			if err := decodeMethods(doc.Routes, key.Value, val); err != nil {
				return nil, loadErrorf(ParseError, location, err, "path %s (line %d): %v", key.Value, key.Line, err)
			}
		default:
			return nil, loadErrorf(ParseError, location, nil,
				"unrecognized key %q at line %d: expected openapi, swagger or a path template", key.Value, key.Line)
		}
	}
	return doc, nil
}

func decodeMethods(routes RouteSource, template string, m *yaml.Node) error {
	if m.Kind != yaml.MappingNode {
		return errors.New("expected a mapping of methods")
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		method := strings.ToLower(m.Content[i].Value)
		if !knownMethod(method) {
			return fmt.Errorf("unknown method %q", m.Content[i].Value)
		}
		var entry routeEntry
		if err := m.Content[i+1].Decode(&entry); err != nil {
			return err
		}
		status := entry.Status
		if status == 0 {
			status = http.StatusOK
		}
		contentType := entry.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		routes.Add(template, method, Operation{
			ResponseSchema: entry.ResponseSchema,
			Status:         status,
			ContentType:    contentType,
			OperationID:    entry.OperationID,
			Summary:        entry.Summary,
		})
	}
	return nil
}

var methods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

func knownMethod(m string) bool { return methods[m] }
