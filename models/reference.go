package models

import "github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"

type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

func LocationFromDoc(doc store.Document) Location {
	return Location{
		ID:   doc.ID,
		Name: docString(doc.Data, "name"),
		City: docString(doc.Data, "city"),
	}
}

func (l Location) Doc() map[string]any {
	return map[string]any{"name": l.Name, "city": l.City}
}

type PropertyType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TypeFromDoc(doc store.Document) PropertyType {
	return PropertyType{ID: doc.ID, Name: docString(doc.Data, "name")}
}

func (t PropertyType) Doc() map[string]any {
	return map[string]any{"name": t.Name}
}
