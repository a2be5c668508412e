package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// BatchRun is one generation run: its request, outcome, assembled
// questions, stage records and trace.
type BatchRun struct {
	ent.Schema
}

func (BatchRun) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID"),
		field.Int64("sequence").
			Unique().
			Immutable(),
		field.Time("created_at").
			Immutable(),
		field.String("session_id").
			Default(""),
		field.String("strategy"),
		field.String("question_type"),
		field.String("cefr"),
		field.String("topic"),
		field.Int("requested"),
		field.Int("assembled"),
		field.Enum("status").
			Values("complete", "failed"),
		field.String("error_message").
			Default(""),
		field.Text("questions").
			Comment("JSON array of assembled questions"),
		field.Text("stages").
			Comment("JSON object with the stage 1-3 records"),
		field.Text("trace").
			Comment("JSON array of trace lines"),
	}
}

func (BatchRun) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
