// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jobs

import (
	"errors"
)

var (
	ErrorEmptyQueue = errors.New("empty queue")
)

// QueuedFunc is an enqueued job body. It must close the provided
// channel once it stops sending status updates.
type QueuedFunc = func(chan<- GeneralJobInfo)

type jobEntry struct {
	job          *QueuedFunc
	initialState GeneralJobInfo
}

// JobQueue is a FIFO queue of jobs waiting for a free slot.
// It is not safe for concurrent use - the owner must synchronize.
type JobQueue struct {
	entries []jobEntry
}

func (jq *JobQueue) Size() int {
	return len(jq.entries)
}

func (jq *JobQueue) Enqueue(item *QueuedFunc, initialState GeneralJobInfo) {
	jq.entries = append(jq.entries, jobEntry{job: item, initialState: initialState})
}

// DelayNext moves the item to be dequeued next one position back.
// In case the queue contains only a single item, the function does
// nothing. In case the queue is empty, ErrorEmptyQueue is returned.
func (jq *JobQueue) DelayNext() error {
	if len(jq.entries) == 0 {
		return ErrorEmptyQueue
	}
	if len(jq.entries) > 1 {
		jq.entries[0], jq.entries[1] = jq.entries[1], jq.entries[0]
	}
	return nil
}

func (jq *JobQueue) Dequeue() (*QueuedFunc, GeneralJobInfo, error) {
	if len(jq.entries) == 0 {
		return nil, nil, ErrorEmptyQueue
	}
	entry := jq.entries[0]
	jq.entries = jq.entries[1:]
	return entry.job, entry.initialState, nil
}

// PeekID returns the ID of the next item to be dequeued.
func (jq *JobQueue) PeekID() (string, error) {
	if len(jq.entries) == 0 {
		return "", ErrorEmptyQueue
	}
	return jq.entries[0].initialState.GetID(), nil
}
