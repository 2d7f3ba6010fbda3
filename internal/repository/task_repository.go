package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/task-management-api/internal/models"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository backed by the tasks
// collection of the given database.
func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{coll: db.Collection("tasks")}
}

// Create inserts a new task and fills in its assigned ID
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	result, err := r.coll.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = id
	}
	return nil
}

// FindByID finds a task by ID
func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var task models.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter, newest-created first
func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{}

	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Priority != nil {
		query["priority"] = *filter.Priority
	}
	if filter.CreatedBy != nil {
		query["created_by"] = *filter.CreatedBy
	}
	if filter.AssignedTo != nil {
		query["assigned_to"] = bson.M{"$in": []string{*filter.AssignedTo}}
	}
	if filter.InvolvedUser != nil {
		query["$or"] = bson.A{
			bson.M{"created_by": *filter.InvolvedUser},
			bson.M{"assigned_to": bson.M{"$in": []string{*filter.InvolvedUser}}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial field set to a task
func (r *MongoTaskRepository) Update(ctx context.Context, id string, update TaskUpdate) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := bson.M{"updated_at": update.UpdatedAt}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.ClearDescription {
		set["description"] = nil
	} else if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.ClearDueDate {
		set["due_date"] = nil
	} else if update.DueDate != nil {
		set["due_date"] = *update.DueDate
	}
	if update.AssignedTo != nil {
		set["assigned_to"] = *update.AssignedTo
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}
	if update.ClearCompletedAt {
		set["completed_at"] = nil
	} else if update.CompletedAt != nil {
		set["completed_at"] = *update.CompletedAt
	}

	result, err := r.coll.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task
func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
