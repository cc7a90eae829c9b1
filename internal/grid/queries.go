package grid

// Central-data GraphQL documents.

const titlesQuery = `
query Titles {
  titles {
    id
    name
  }
}
`

const allSeriesByTournamentQuery = `
query AllSeries($tournamentId: ID!, $after: Cursor) {
  allSeries(
    filter: { tournament: { id: { in: [$tournamentId] }, includeChildren: { equals: true } } }
    orderBy: StartTimeScheduled
    after: $after
  ) {
    edges {
      node {
        id
        startTimeScheduled
        teams {
          baseInfo { id name }
        }
        tournament { id name }
        title { id nameShortened }
      }
    }
    pageInfo { endCursor hasNextPage }
  }
}
`
